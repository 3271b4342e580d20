package elasticity

import "errors"

// ErrInvalidParams is returned for negative or non-finite parameters.
// ErrZeroBaselineFee additionally matches ErrInvalidParams.
var (
	ErrInvalidParams   = errors.New("invalid projection params")
	ErrZeroBaselineFee = errors.New("baseline fee must not be zero")
)

package normalize

import "errors"

// ErrUnnormalizable marks an employer name that yields no usable key.
// It is recoverable: callers skip the row and count it.
var ErrUnnormalizable = errors.New("unnormalizable employer name")

package export

import "errors"

// ErrWriteOutput wraps any failure to produce an output file. The previous
// file at that path, if any, is left in place.
var ErrWriteOutput = errors.New("write output failed")

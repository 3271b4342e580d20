package service

import "errors"

// ErrRunFailed wraps the stage error of an aborted run.
var ErrRunFailed = errors.New("pipeline run failed")

package repository

import "errors"

// Sentinel kinds for results store errors.
var (
	ErrNotFound     = errors.New("employer not found")
	ErrInvalidLimit = errors.New("invalid employer limit")
	ErrNoSnapshot   = errors.New("no completed run")
)

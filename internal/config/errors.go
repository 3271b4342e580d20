package config

import "errors"

// Sentinel error kinds. Fee problems match both ErrInvalidConfig and ErrInvalidFee.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrInvalidFee    = errors.New("invalid fee")
	ErrLoadConfig    = errors.New("load config failed")
)

package superfan

import "errors"

var (
	ErrBadArgCount     = errors.New("superfan: missing arguments")
	ErrUnauthorized    = errors.New("superfan: unauthorized")
	ErrUnknownSelector = errors.New("superfan: unknown selector")
	ErrZeroAmount      = errors.New("superfan: amount must be positive")
	ErrZeroThreshold   = errors.New("superfan: threshold must be positive")
	ErrBelowThreshold  = errors.New("superfan: points below claimed threshold")
	ErrPointsOverflow  = errors.New("superfan: points counter overflow")
	ErrNotConfigured   = errors.New("superfan: admin slot missing")
)

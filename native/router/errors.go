package router

import "errors"

var (
	ErrBadArgCount     = errors.New("router: creation requires 9 arguments")
	ErrBpsOutOfRange   = errors.New("router: basis point weight above 10000")
	ErrBpsSum          = errors.New("router: basis point weights sum above 10000")
	ErrZeroAsset       = errors.New("router: asset id must be nonzero")
	ErrUnknownSelector = errors.New("router: unknown selector")
	ErrUnauthorized    = errors.New("router: unauthorized")
	ErrGroupShape      = errors.New("router: malformed purchase group")
	ErrFeeTooLow       = errors.New("router: call fee below pooled minimum")
	ErrNotConfigured   = errors.New("router: configuration slot missing")
)

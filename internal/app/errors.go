package app

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNoStore     = errors.New("no store configured")
	ErrInvalidPlan = errors.New("invalid plan")
)

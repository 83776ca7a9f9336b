package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound    = errors.New("plan not found")
	ErrInvalidPlan = errors.New("invalid plan config")
	ErrOpenStore   = errors.New("open store failed")
)

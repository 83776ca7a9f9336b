package coach

import "errors"

// Sentinel kinds for coach errors.
var (
	ErrGenerate      = errors.New("generation request failed")
	ErrEmptyResponse = errors.New("empty generation response")
)

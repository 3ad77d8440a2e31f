package milestone

import "errors"

// Sentinel kinds for milestone errors.
var (
	ErrInvalidDocument = errors.New("invalid milestone document")
)

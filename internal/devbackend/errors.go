package devbackend

import "errors"

// Sentinel kinds for dev backend errors.
var (
	ErrInvalidConfig = errors.New("invalid dev backend config")
	ErrServe         = errors.New("dev backend serve failed")
)

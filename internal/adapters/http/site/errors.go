package site

import "errors"

// Error constants
var (
	ErrRender  = errors.New("board render failed")
	ErrNoShare = errors.New("share dialog has no target")
)

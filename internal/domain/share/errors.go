package share

import "errors"

// Sentinel kinds for share errors.
var (
	ErrNoTarget = errors.New("share dialog has no target")
	ErrEncode   = errors.New("qr encode failed")
)

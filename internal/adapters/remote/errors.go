package remote

import "errors"

var (
	// ErrRequest is returned when the request could not be built or sent.
	ErrRequest = errors.New("upstream request failed")
	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("unexpected upstream status")
	// ErrDecode is returned when the response body cannot be decoded.
	ErrDecode = errors.New("invalid upstream response")
)

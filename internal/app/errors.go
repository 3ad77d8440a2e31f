package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrNoFetcher       = errors.New("no upstream fetcher configured")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
	ErrQueueFull       = errors.New("session queue full")
	ErrUnknownAction   = errors.New("unknown action")
	ErrInvalidAction   = errors.New("invalid action")
)

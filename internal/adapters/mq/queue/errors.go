package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrClosed  = errors.New("trigger queue closed")
	ErrFull    = errors.New("trigger queue full")
	ErrPending = errors.New("refresh already pending")
)

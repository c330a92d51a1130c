package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrUnknownBoard      = errors.New("unknown board")
	ErrNotStarted        = errors.New("service not started")
	ErrStopped           = errors.New("service stopped")
)

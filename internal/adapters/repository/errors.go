package repository

import "errors"

// Sentinel kinds for board store errors.
var (
	ErrNotFound     = errors.New("entry not found")
	ErrInvalidLimit = errors.New("invalid limit")
)

package snapshot

import "errors"

// Sentinel kinds for snapshot failures.
var (
	ErrNotFound       = errors.New("snapshot not found")
	ErrUnknownBackend = errors.New("unknown snapshot backend")
	ErrStale          = errors.New("snapshot too old")
	ErrStore          = errors.New("snapshot store failed")
)

package watch

import "errors"

// ErrWatch wraps failures to set up file watching.
var ErrWatch = errors.New("watch setup failed")

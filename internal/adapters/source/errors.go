package source

import (
	"errors"
	"fmt"
)

// ErrFetch marks every failure to obtain source text.
var ErrFetch = errors.New("fetch failed")

// StatusError reports a non-success HTTP status. It matches ErrFetch.
type StatusError struct {
	Location   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s: status %d", ErrFetch, e.Location, e.StatusCode)
}

// Is lets errors.Is(err, ErrFetch) succeed.
func (e *StatusError) Is(target error) bool {
	return target == ErrFetch
}

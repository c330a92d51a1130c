package csvparse

import (
	"errors"
)

// ErrMalformedInput is returned when the text has no header line.
var ErrMalformedInput = errors.New("malformed input")

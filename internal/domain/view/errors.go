package view

import (
	"errors"
)

// Sentinel errors for parsing view selectors.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownSort     = errors.New("unknown sort mode")
	ErrUnknownStatus   = errors.New("unknown volunteer status")
)

package imglink

import (
	"errors"
	"fmt"
)

// Error classes returned by this package. Match them with errors.Is.
var (
	ErrIO       = errors.New("imglink: i/o error")
	ErrFormat   = errors.New("imglink: invalid format")
	ErrConfig   = errors.New("imglink: invalid configuration")
	ErrNotFound = errors.New("imglink: not found")

	// ErrNoValidEntries is returned by LoadDictionary when every row was skipped.
	ErrNoValidEntries = fmt.Errorf("%w: dictionary contains no valid entries", ErrFormat)
)

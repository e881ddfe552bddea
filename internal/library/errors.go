package library

import "errors"

var (
	// ErrUnknownSeries indicates a series the store was not configured for.
	ErrUnknownSeries = errors.New("unknown series")
)

package analysis

import "errors"

var (
	// ErrConfiguration is returned for an invalid analyzer setup, e.g. a non-positive window size.
	ErrConfiguration = errors.New("invalid analysis configuration")
	// ErrEmptyRun is returned when a summary is requested over zero batches.
	ErrEmptyRun = errors.New("no batches to summarize")
)

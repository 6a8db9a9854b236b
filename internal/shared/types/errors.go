package types

import "errors"

var (
	// ErrDataUnavailable means the input file is missing, unreadable, or
	// does not match the expected schema. Fatal at startup.
	ErrDataUnavailable = errors.New("surveillance data unavailable")

	// ErrInvalidGrouping means the caller asked to group or summarize by
	// a field that does not exist in the dataset schema.
	ErrInvalidGrouping = errors.New("invalid grouping or metric field")

	// ErrUnknownIndicator means the requested time-series indicator is
	// not a recognized field.
	ErrUnknownIndicator = errors.New("unknown indicator")
)

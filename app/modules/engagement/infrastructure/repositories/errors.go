package engagementdb

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict indicates a conditional update lost a version race
	// with a concurrent writer.
	ErrVersionConflict = errors.New("progress row version conflict")
)

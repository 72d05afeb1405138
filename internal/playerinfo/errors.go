package playerinfo

import "errors"

var (
	// ErrCapacityExceeded is returned by Register when all viewer slots are taken.
	ErrCapacityExceeded = errors.New("viewer capacity exceeded")

	// ErrSkipOutOfRange is returned when a computed skip run exceeds MaxPlayers.
	// It implies the record table is internally inconsistent.
	ErrSkipOutOfRange = errors.New("skip count out of range")

	// ErrMissingRecord is returned when an operation addresses a (viewer, target)
	// cell that does not exist.
	ErrMissingRecord = errors.New("missing update record")
)

package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument covers malformed glossary entries and chunks
	// missing required fields. Per-record: the batch keeps going.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrValidationFailed means injected markup failed an integrity check.
	// Text that fails validation is never persisted.
	ErrValidationFailed = errors.New("markup validation failed")
	// ErrConflict is returned when an optimistic-version write loses the race.
	ErrConflict = errors.New("version conflict")
)

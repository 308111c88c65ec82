package services

import "errors"

// Sentinel outcomes the handlers map to HTTP responses with errors.Is.
var (
	// ErrAlreadyCompletedToday is a logical rejection, not a failure: the
	// habit already got its one completion credit for this calendar day.
	ErrAlreadyCompletedToday = errors.New("habit already completed today")

	ErrNotFound      = errors.New("not found")
	ErrWrongOwner    = errors.New("resource belongs to another user")
	ErrWrongKind     = errors.New("operation does not apply to this item kind")
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyText     = errors.New("text is required")
	ErrInvalidTarget = errors.New("target must be positive")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidHour   = errors.New("hour is outside the schedule range")
	ErrInvalidColor  = errors.New("unknown note color")
)

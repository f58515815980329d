package booking

import "errors"

// Domain errors. Handlers match these with errors.Is and map them to HTTP
// statuses; none of them is retried automatically.
var (
	// ErrSlotNotAvailable means the window falls outside the massager's
	// declared open hours.
	ErrSlotNotAvailable = errors.New("requested slot is outside the massager's availability")

	// ErrSlotConflict means the window overlaps an existing active booking.
	ErrSlotConflict = errors.New("requested slot conflicts with an existing booking")

	// ErrSlotContended means another booking request for the same massager and
	// date holds the creation lock; the client may retry.
	ErrSlotContended = errors.New("slot is being booked by another request, please retry")

	// ErrInvalidTransition means the requested status change is not legal from
	// the booking's current state.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrUnauthorized means the actor may not perform the requested operation.
	ErrUnauthorized = errors.New("actor not authorized for this operation")

	// ErrNotFound means the referenced booking or massager does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidInput covers malformed dates, out-of-bound durations and
	// windows crossing midnight.
	ErrInvalidInput = errors.New("invalid booking input")
)

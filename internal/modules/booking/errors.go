package booking

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrServiceInactive = errors.New("service is not bookable")

	// ErrSlotTaken is the Conflict outcome: another non-terminal booking
	// already occupies the requested slot.
	ErrSlotTaken = errors.New("slot is no longer available")

	// ErrAlreadyFinal rejects transitions out of a terminal status.
	ErrAlreadyFinal = errors.New("booking is already in a terminal state")
)

package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrSlotLocked = errors.New("slot is currently being booked by another request")
)

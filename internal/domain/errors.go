package domain

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// Availability & pricing
	ErrInvalidRange = errors.New("check-out date must be after check-in date")
	ErrPastDate     = errors.New("check-in date cannot be in the past")
	ErrDateConflict = errors.New("the listing is not available for the selected dates")

	// Booking lifecycle
	ErrAlreadyCompleted  = errors.New("cannot cancel a completed booking")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrInvalidTransition = errors.New("illegal booking status transition")

	// Review gate
	ErrNotEligible     = errors.New("you can only review listings you've booked and completed")
	ErrDuplicateReview = errors.New("you have already reviewed this listing")

	// Payment gate
	ErrAmountMismatch = errors.New("payment amount must match the booking total")
)

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

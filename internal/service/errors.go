package service

import "errors"

// Booking flow errors.
var (
	ErrInvalidStep     = errors.New("operation not allowed in current step")
	ErrIncompleteDraft = errors.New("booking draft is incomplete")
	ErrPastDate        = errors.New("cannot book in the past")
	ErrDateTooFar      = errors.New("date is beyond the booking window")
	ErrUnknownTimeSlot = errors.New("unknown time slot")
	ErrInvalidService  = errors.New("invalid service")
	ErrInvalidStaff    = errors.New("invalid staff member")
)

// Store errors.
var (
	ErrDuplicateAppointment  = errors.New("appointment already exists")
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrInvalidStatus         = errors.New("invalid appointment status")
	ErrWaitlistEntryNotFound = errors.New("waitlist entry not found")
	ErrStaffNotFound         = errors.New("staff member not found")
	ErrServiceNotFound       = errors.New("service not found")
	ErrStoryNotFound         = errors.New("story not found")
	ErrInvalidProfile        = errors.New("invalid profile")
)

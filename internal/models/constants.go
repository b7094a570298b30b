package models

const (
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusWaitlist  = "waitlist"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

const (
	IndicatorNone   = "none"
	IndicatorViewed = "viewed"
	IndicatorNew    = "new"
)

const (
	StepSelectStaff   = "select_staff"
	StepSelectService = "select_service"
	StepSelectDate    = "select_date"
	StepSelectTime    = "select_time"
	StepConfirm       = "confirm"
)

// Keys of the local key-value storage.
const (
	KeyCurrentUser   = "currentUser"
	KeyAppointments  = "barbershopAppointments"
	KeyWaitlist      = "barbershopWaitlist"
	KeyViewedStories = "viewedStories"
)

const (
	// DefaultBookingDays number of days offered by the date picker, today included
	DefaultBookingDays = 7

	// DateLayout day format used on the wire
	DateLayout = "2006-01-02"

	// DayLabelLayout short day label shown in the date picker
	DayLabelLayout = "02.01"

	// TodayLabelPrefix prefix of today's entry in the date picker
	TodayLabelPrefix = "היום, "

	// TimeLayout format of a time slot label
	TimeLayout = "15:04"

	// RateLimitRPS default API requests per second per client
	RateLimitRPS = 20

	// RateLimitBurst default API burst per client
	RateLimitBurst = 40
)

// ValidAppointmentStatus reports whether s is one of the appointment statuses.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

package domain

import (
	"context"
	"time"

	"bookyz/internal/models"
)

// KVStore persists opaque blobs under fixed keys. A missing key yields (nil, nil).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type Catalog interface {
	Staff() []models.Staff
	StaffByID(id int64) (models.Staff, bool)
	Services() []models.Service
	ServiceByID(id string) (models.Service, bool)
	TimeSlots() []string
	HasTimeSlot(label string) bool
	Business() models.BusinessInfo
	DateOptions(now time.Time, days int) []models.DateOption
}

// AppointmentRepository is the part of the appointment store the booking flow writes to.
type AppointmentRepository interface {
	Add(ctx context.Context, appointment models.Appointment) error
	Get(id string) (models.Appointment, error)
	Reschedule(ctx context.Context, id string, date time.Time, timeLabel string) (models.Appointment, error)
}

type WaitlistRepository interface {
	Add(ctx context.Context, entry models.WaitlistEntry) error
}

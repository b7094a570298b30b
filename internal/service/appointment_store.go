package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookyz/internal/domain"
	"bookyz/internal/events"
	"bookyz/internal/models"

	"github.com/rs/zerolog"
)

// AppointmentStore keeps appointments in insertion order and mirrors them to
// the key-value store after every change.
type AppointmentStore struct {
	mu       sync.Mutex
	kv       domain.KVStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	items    []models.Appointment
}

func NewAppointmentStore(kv domain.KVStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *AppointmentStore {
	return &AppointmentStore{
		kv:       kv,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Load replaces the in-memory list with the persisted one. A missing key
// yields an empty store.
func (s *AppointmentStore) Load(ctx context.Context) error {
	var items []models.Appointment
	if _, err := loadJSON(ctx, s.kv, models.KeyAppointments, &items); err != nil {
		return err
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Debug().Int("count", len(items)).Msg("appointments loaded")
	return nil
}

func (s *AppointmentStore) Add(ctx context.Context, appointment models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(appointment.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateAppointment, appointment.ID)
	}

	s.items = append(s.items, appointment)
	if err := s.persist(ctx); err != nil {
		s.items = s.items[:len(s.items)-1]
		return err
	}

	s.logger.Info().
		Str("appointment_id", appointment.ID).
		Str("staff", appointment.StaffName).
		Str("service", appointment.ServiceName).
		Time("date", appointment.Date).
		Msg("appointment booked")
	s.publish(events.EventAppointmentBooked, appointment)
	return nil
}

// All returns a copy of the appointments in insertion order.
func (s *AppointmentStore) All() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Appointment(nil), s.items...)
}

func (s *AppointmentStore) Get(id string) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Appointment{}, ErrAppointmentNotFound
	}
	return s.items[i], nil
}

// UpdateStatus moves an appointment into status, keeping it in history.
func (s *AppointmentStore) UpdateStatus(ctx context.Context, id, status string) (models.Appointment, error) {
	if !models.ValidAppointmentStatus(status) {
		return models.Appointment{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Appointment{}, ErrAppointmentNotFound
	}

	previous := s.items[i]
	if previous.Status == status {
		return previous, nil
	}

	s.items[i].Status = status
	if err := s.persist(ctx); err != nil {
		s.items[i] = previous
		return models.Appointment{}, err
	}

	updated := s.items[i]
	s.logger.Info().
		Str("appointment_id", id).
		Str("from", previous.Status).
		Str("to", status).
		Msg("appointment status changed")
	s.publish(events.StatusEvent(status), updated)
	return updated, nil
}

func (s *AppointmentStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrAppointmentNotFound
	}

	removed := s.items[i]
	previous := s.items
	s.items = append(append([]models.Appointment(nil), s.items[:i]...), s.items[i+1:]...)
	if err := s.persist(ctx); err != nil {
		s.items = previous
		return err
	}

	s.logger.Info().Str("appointment_id", id).Msg("appointment removed")
	s.publish(events.EventAppointmentRemoved, removed)
	return nil
}

// Reschedule moves an appointment to a new slot in place; the id is kept and
// the status returns to confirmed.
func (s *AppointmentStore) Reschedule(ctx context.Context, id string, date time.Time, timeLabel string) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Appointment{}, ErrAppointmentNotFound
	}

	previous := s.items[i]
	s.items[i].Date = date
	s.items[i].Time = timeLabel
	s.items[i].Status = models.StatusConfirmed
	if err := s.persist(ctx); err != nil {
		s.items[i] = previous
		return models.Appointment{}, err
	}

	updated := s.items[i]
	s.logger.Info().
		Str("appointment_id", id).
		Time("from", previous.Date).
		Time("to", date).
		Msg("appointment rescheduled")
	s.publish(events.EventAppointmentRescheduled, updated)
	return updated, nil
}

// ActiveCount counts confirmed appointments that have not started at now.
func (s *AppointmentStore) ActiveCount(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, a := range s.items {
		if a.IsActive(now) {
			n++
		}
	}
	return n
}

func (s *AppointmentStore) CompletedCount() int {
	return s.countStatus(models.StatusCompleted)
}

func (s *AppointmentStore) CancelledCount() int {
	return s.countStatus(models.StatusCancelled)
}

func (s *AppointmentStore) Summary(now time.Time) models.AppointmentSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := models.AppointmentSummary{Total: len(s.items)}
	for _, a := range s.items {
		switch {
		case a.IsActive(now):
			summary.Active++
		case a.Status == models.StatusCompleted:
			summary.Completed++
		case a.Status == models.StatusCancelled:
			summary.Cancelled++
		}
	}
	return summary
}

func (s *AppointmentStore) countStatus(status string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, a := range s.items {
		if a.Status == status {
			n++
		}
	}
	return n
}

func (s *AppointmentStore) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (s *AppointmentStore) persist(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []models.Appointment{}
	}
	if err := saveJSON(ctx, s.kv, models.KeyAppointments, items); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist appointments")
		return err
	}
	return nil
}

func (s *AppointmentStore) publish(eventType string, a models.Appointment) {
	publishEvent(s.eventBus, s.logger, eventType, events.AppointmentEventPayload{
		AppointmentID: a.ID,
		StaffID:       a.StaffID,
		StaffName:     a.StaffName,
		ServiceName:   a.ServiceName,
		Price:         a.Price,
		Date:          a.Date,
		Time:          a.Time,
		Status:        a.Status,
	})
}

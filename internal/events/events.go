package events

import (
	"encoding/json"
	"sync"
	"time"

	"bookyz/internal/models"
)

const (
	EventAppointmentBooked      = "appointment_booked"
	EventAppointmentCancelled   = "appointment_cancelled"
	EventAppointmentCompleted   = "appointment_completed"
	EventAppointmentConfirmed   = "appointment_confirmed"
	EventAppointmentRescheduled = "appointment_rescheduled"
	EventAppointmentRemoved     = "appointment_removed"
	EventWaitlistJoined         = "waitlist_joined"
	EventStoryViewed            = "story_viewed"
	EventProfileUpdated         = "profile_updated"
	EventProfileLoggedOut       = "profile_logged_out"
)

// StatusEvent maps an appointment status onto the event published when an
// appointment moves into it.
func StatusEvent(status string) string {
	switch status {
	case models.StatusCancelled:
		return EventAppointmentCancelled
	case models.StatusCompleted:
		return EventAppointmentCompleted
	default:
		return EventAppointmentConfirmed
	}
}

// AppointmentEventPayload is the appointment snapshot handed to consumers.
type AppointmentEventPayload struct {
	AppointmentID string    `json:"appointment_id"`
	StaffID       int64     `json:"staff_id"`
	StaffName     string    `json:"staff_name"`
	ServiceName   string    `json:"service_name"`
	Price         int       `json:"price"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
}

type WaitlistEventPayload struct {
	EntryID     string `json:"entry_id"`
	StaffID     int64  `json:"staff_id"`
	StaffName   string `json:"staff_name"`
	ServiceName string `json:"service_name"`
}

type StoryEventPayload struct {
	StaffID int64  `json:"staff_id"`
	StoryID string `json:"story_id"`
}

type ProfileEventPayload struct {
	ProfileID            string `json:"profile_id"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the payload into v.
func (e *Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers one handler for several event types.
func (b *EventBus) SubscribeAll(handler EventHandler, eventTypes ...string) {
	for _, t := range eventTypes {
		b.Subscribe(t, handler)
	}
}

// Publish notifies subscribers of the event type and returns the first handler error.
func (b *EventBus) Publish(event *Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var firstErr error
	for _, handler := range handlers {
		// handlers run synchronously, a failing one does not stop the rest
		if err := handler(event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}
	return b.Publish(&event)
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}

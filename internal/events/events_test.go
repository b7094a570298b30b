package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bookyz/internal/models"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	handler := func(event *Event) error {
		received = event
		callCount++
		return nil
	}

	bus.Subscribe(EventAppointmentBooked, handler)

	payload := AppointmentEventPayload{AppointmentID: "a-1", StaffName: "ירון", Price: 80}
	if err := bus.PublishJSON(EventAppointmentBooked, payload); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}

	if received.Type != EventAppointmentBooked {
		t.Errorf("expected type %s, got %s", EventAppointmentBooked, received.Type)
	}

	var decoded AppointmentEventPayload
	if err := received.Decode(&decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}

	if decoded.StaffName != "ירון" || decoded.Price != 80 {
		t.Errorf("unexpected payload %+v", decoded)
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return nil })
	bus.Subscribe("event", func(_ *Event) error { count2++; return nil })

	if err := bus.Publish(&Event{Type: "event"}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both handlers to be called once, got %d and %d", count1, count2)
	}
}

func TestEventBusHandlerError(t *testing.T) {
	bus := NewEventBus()
	failure := errors.New("handler failed")
	var secondCalled bool

	bus.Subscribe("event", func(_ *Event) error { return failure })
	bus.Subscribe("event", func(_ *Event) error { secondCalled = true; return nil })

	err := bus.Publish(&Event{Type: "event"})
	if !errors.Is(err, failure) {
		t.Errorf("expected handler error, got %v", err)
	}
	if !secondCalled {
		t.Errorf("expected second handler to run after a failure")
	}
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus()
	seen := map[string]int{}

	bus.SubscribeAll(func(e *Event) error { seen[e.Type]++; return nil },
		EventProfileUpdated, EventProfileLoggedOut)

	_ = bus.PublishJSON(EventProfileUpdated, ProfileEventPayload{ProfileID: "p"})
	_ = bus.PublishJSON(EventProfileLoggedOut, ProfileEventPayload{ProfileID: "p"})
	_ = bus.PublishJSON(EventStoryViewed, StoryEventPayload{StaffID: 1})

	if seen[EventProfileUpdated] != 1 || seen[EventProfileLoggedOut] != 1 {
		t.Errorf("unexpected deliveries: %v", seen)
	}
	if seen[EventStoryViewed] != 0 {
		t.Errorf("unsubscribed event delivered")
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	// Should not panic
	_ = bus.Publish(&Event{Type: "unknown"})
	if err := bus.PublishJSON("unknown", nil); err != nil {
		t.Errorf("PublishJSON failed: %v", err)
	}
}

func TestNilBus(t *testing.T) {
	var bus *EventBus
	if err := bus.PublishJSON(EventStoryViewed, StoryEventPayload{}); err != nil {
		t.Errorf("nil bus should be a no-op, got %v", err)
	}
}

func TestStatusEvent(t *testing.T) {
	cases := map[string]string{
		models.StatusCancelled: EventAppointmentCancelled,
		models.StatusCompleted: EventAppointmentCompleted,
		models.StatusConfirmed: EventAppointmentConfirmed,
	}
	for status, want := range cases {
		if got := StatusEvent(status); got != want {
			t.Errorf("StatusEvent(%s) = %s, want %s", status, got, want)
		}
	}
}

func TestNewJSONEvent(t *testing.T) {
	payload := WaitlistEventPayload{EntryID: "w-1", StaffID: 3}
	event, err := NewJSONEvent(EventWaitlistJoined, payload)
	if err != nil {
		t.Fatalf("NewJSONEvent failed: %v", err)
	}

	if event.Type != EventWaitlistJoined {
		t.Errorf("expected %s, got %s", EventWaitlistJoined, event.Type)
	}

	if event.CreatedAt.IsZero() || event.CreatedAt.After(time.Now()) {
		t.Errorf("expected CreatedAt to be set")
	}

	var decoded WaitlistEventPayload
	if err := json.Unmarshal(event.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if decoded.EntryID != "w-1" || decoded.StaffID != 3 {
		t.Errorf("unexpected payload %+v", decoded)
	}
}

package metrics

import (
	"strconv"
	"sync"

	"bookyz/internal/events"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bookyz"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Appointments booked by service.",
		},
		[]string{"service"},
	)

	appointmentEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_events_total",
			Help:      "Appointment lifecycle events by type.",
		},
		[]string{"event"},
	)

	waitlistJoins = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waitlist_joins_total",
			Help:      "Waitlist entries created.",
		},
	)

	storyViews = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "story_views_total",
			Help:      "Stories opened for the first time, by staff member.",
		},
		[]string{"staff_id"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookings, appointmentEvents, waitlistJoins, storyViews)
	})
}

// IncHTTP increments the request counter for a route pattern.
func IncHTTP(route string, code int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Subscribe feeds the counters from domain events.
func Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventAppointmentBooked, func(e *events.Event) error {
		var p events.AppointmentEventPayload
		if err := e.Decode(&p); err != nil {
			return err
		}
		bookings.WithLabelValues(p.ServiceName).Inc()
		appointmentEvents.WithLabelValues(e.Type).Inc()
		return nil
	})

	bus.SubscribeAll(func(e *events.Event) error {
		appointmentEvents.WithLabelValues(e.Type).Inc()
		return nil
	},
		events.EventAppointmentCancelled,
		events.EventAppointmentCompleted,
		events.EventAppointmentConfirmed,
		events.EventAppointmentRescheduled,
		events.EventAppointmentRemoved,
	)

	bus.Subscribe(events.EventWaitlistJoined, func(_ *events.Event) error {
		waitlistJoins.Inc()
		return nil
	})

	bus.Subscribe(events.EventStoryViewed, func(e *events.Event) error {
		var p events.StoryEventPayload
		if err := e.Decode(&p); err != nil {
			return err
		}
		storyViews.WithLabelValues(strconv.FormatInt(p.StaffID, 10)).Inc()
		return nil
	})
}

// Package app assembles the booking components into one application state
// that transports drive.
package app

import (
	"context"
	"time"

	"bookyz/internal/catalog"
	"bookyz/internal/domain"
	"bookyz/internal/logging"
	"bookyz/internal/models"
	"bookyz/internal/service"

	"github.com/rs/zerolog"
)

// State is the injectable application state handed to the HTTP layer.
type State struct {
	Catalog      *catalog.Catalog
	Flow         *service.BookingFlow
	Appointments *service.AppointmentStore
	Waitlist     *service.WaitlistService
	Stories      *service.StoryService
	Profile      *service.ProfileService
	BookingDays  int

	now func() time.Time
}

// Options configures New.
type Options struct {
	Catalog     *catalog.Catalog
	KV          domain.KVStore
	EventBus    domain.EventPublisher
	BookingDays int
	Logger      *zerolog.Logger
}

func New(opts Options) *State {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default(time.Now(), time.Local)
	}

	appointments := service.NewAppointmentStore(opts.KV, opts.EventBus, logging.Component(opts.Logger, "appointments"))
	waitlist := service.NewWaitlistService(opts.KV, opts.EventBus, logging.Component(opts.Logger, "waitlist"))
	flow := service.NewBookingFlow(cat, appointments, waitlist, cat.Location(), opts.BookingDays, logging.Component(opts.Logger, "flow"))

	return &State{
		Catalog:      cat,
		Flow:         flow,
		Appointments: appointments,
		Waitlist:     waitlist,
		Stories:      service.NewStoryService(cat, opts.KV, opts.EventBus, logging.Component(opts.Logger, "stories")),
		Profile:      service.NewProfileService(opts.KV, opts.EventBus, logging.Component(opts.Logger, "profile")),
		BookingDays:  flowDays(opts.BookingDays),
		now:          time.Now,
	}
}

// Load restores persisted state. A component whose blob cannot be read
// starts empty; the failure is logged and loading continues.
func (s *State) Load(ctx context.Context, logger *zerolog.Logger) {
	logger = logging.Component(logger, "app")
	loaders := []struct {
		name string
		load func(context.Context) error
	}{
		{"profile", s.Profile.Load},
		{"appointments", s.Appointments.Load},
		{"waitlist", s.Waitlist.Load},
		{"stories", s.Stories.Load},
	}
	for _, l := range loaders {
		if err := l.load(ctx); err != nil {
			logger.Warn().Err(err).Str("component", l.name).Msg("failed to restore state, starting empty")
		}
	}
}

// Now is the clock used for summary counts and date options.
func (s *State) Now() time.Time {
	return s.now()
}

func flowDays(days int) int {
	if days <= 0 {
		return models.DefaultBookingDays
	}
	return days
}

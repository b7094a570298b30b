package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bookyz/internal/catalog"
	"bookyz/internal/domain"
	"bookyz/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FlowSnapshot is a read-only view of the booking wizard.
type FlowSnapshot struct {
	Step         string       `json:"step"`
	Draft        models.Draft `json:"draft"`
	RescheduleID string       `json:"reschedule_id,omitempty"`
}

// BookingFlow drives the wizard staff → service → date → time → confirm.
// Fields after the current step are always unset; the field of the current
// step may hold a pre-selection left by GoBack.
type BookingFlow struct {
	mu          sync.Mutex
	catalog     domain.Catalog
	store       domain.AppointmentRepository
	waitlist    domain.WaitlistRepository
	loc         *time.Location
	bookingDays int
	logger      *zerolog.Logger
	now         func() time.Time

	step         string
	draft        models.Draft
	rescheduleID string
}

func NewBookingFlow(
	cat domain.Catalog,
	store domain.AppointmentRepository,
	waitlist domain.WaitlistRepository,
	loc *time.Location,
	bookingDays int,
	logger *zerolog.Logger,
) *BookingFlow {
	if loc == nil {
		loc = time.Local
	}
	if bookingDays <= 0 {
		bookingDays = models.DefaultBookingDays
	}
	f := &BookingFlow{
		catalog:     cat,
		store:       store,
		waitlist:    waitlist,
		loc:         loc,
		bookingDays: bookingDays,
		logger:      logger,
		now:         time.Now,
	}
	f.reset()
	return f
}

func (f *BookingFlow) Snapshot() FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *BookingFlow) ChooseStaff(staff models.Staff) (FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != models.StepSelectStaff {
		return f.snapshot(), f.stepError("choose staff")
	}
	if f.rescheduleID != "" {
		return f.snapshot(), fmt.Errorf("%w: staff is fixed while rescheduling", ErrInvalidStep)
	}
	if staff.ID == 0 || strings.TrimSpace(staff.Name) == "" {
		return f.snapshot(), ErrInvalidStaff
	}

	picked := staff.Clone()
	f.draft.Staff = &picked
	f.draft.Service = nil
	f.draft.Time = ""
	f.step = models.StepSelectService
	f.logger.Debug().Int64("staff_id", staff.ID).Msg("staff chosen")
	return f.snapshot(), nil
}

func (f *BookingFlow) ChooseService(service models.Service) (FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != models.StepSelectService || f.draft.Staff == nil {
		return f.snapshot(), f.stepError("choose service")
	}
	if err := service.Validate(); err != nil {
		return f.snapshot(), fmt.Errorf("%w: %v", ErrInvalidService, err)
	}

	picked := service
	f.draft.Service = &picked
	f.draft.Time = ""
	f.step = models.StepSelectDate
	f.logger.Debug().Str("service", service.Name).Msg("service chosen")
	return f.snapshot(), nil
}

// ChooseDate accepts any day from today up to the end of the booking window.
func (f *BookingFlow) ChooseDate(date time.Time) (FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != models.StepSelectDate {
		return f.snapshot(), f.stepError("choose date")
	}

	day := catalog.StartOfDay(date, f.loc)
	today := catalog.StartOfDay(f.now(), f.loc)
	if day.Before(today) {
		return f.snapshot(), ErrPastDate
	}
	if !day.Before(today.AddDate(0, 0, f.bookingDays)) {
		return f.snapshot(), ErrDateTooFar
	}

	f.draft.Date = day
	f.draft.Time = ""
	f.step = models.StepSelectTime
	f.logger.Debug().Str("date", day.Format(models.DateLayout)).Msg("date chosen")
	return f.snapshot(), nil
}

func (f *BookingFlow) ChooseTime(label string) (FlowSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != models.StepSelectTime {
		return f.snapshot(), f.stepError("choose time")
	}
	if !f.catalog.HasTimeSlot(label) {
		return f.snapshot(), fmt.Errorf("%w: %q", ErrUnknownTimeSlot, label)
	}

	f.draft.Time = label
	f.step = models.StepConfirm
	f.logger.Debug().Str("time", label).Msg("time chosen")
	return f.snapshot(), nil
}

// Confirm commits the draft. On failure nothing changes and the draft is kept.
func (f *BookingFlow) Confirm(ctx context.Context) (models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != models.StepConfirm || !f.complete() {
		return models.Appointment{}, ErrIncompleteDraft
	}

	start, err := catalog.SlotStart(f.draft.Date, f.draft.Time, f.loc)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("%w: %v", ErrUnknownTimeSlot, err)
	}

	var appointment models.Appointment
	if f.rescheduleID != "" {
		appointment, err = f.store.Reschedule(ctx, f.rescheduleID, start, f.draft.Time)
		if err != nil {
			return models.Appointment{}, err
		}
	} else {
		appointment = models.Appointment{
			ID:          uuid.NewString(),
			StaffID:     f.draft.Staff.ID,
			StaffName:   f.draft.Staff.Name,
			ServiceName: f.draft.Service.Name,
			Price:       f.draft.Service.Price,
			Date:        start,
			Time:        f.draft.Time,
			Status:      models.StatusConfirmed,
			CreatedAt:   f.now(),
		}
		if err := f.store.Add(ctx, appointment); err != nil {
			return models.Appointment{}, err
		}
	}

	f.reset()
	return appointment, nil
}

// GoBack undoes the latest choice. It reports exit=true when there is
// nothing left to undo and the caller should leave the wizard.
func (f *BookingFlow) GoBack() (snapshot FlowSnapshot, exit bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case models.StepConfirm:
		f.draft.Time = ""
		f.step = models.StepSelectTime
	case models.StepSelectTime:
		f.draft.Time = ""
		f.step = models.StepSelectDate
	case models.StepSelectDate:
		f.draft.Service = nil
		f.step = models.StepSelectService
	case models.StepSelectService:
		f.draft.Service = nil
		f.step = models.StepSelectStaff
	default:
		if f.draft.Staff == nil || f.rescheduleID != "" {
			return f.snapshot(), true
		}
		f.draft.Staff = nil
	}

	if f.rescheduleID != "" && f.step == models.StepSelectService {
		// staff and service are fixed while rescheduling
		f.reset()
		return f.snapshot(), true
	}

	f.logger.Debug().Str("step", f.step).Msg("went back")
	return f.snapshot(), false
}

// Cancel discards the draft and any reschedule in progress.
func (f *BookingFlow) Cancel() FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reset()
	f.logger.Debug().Msg("booking cancelled")
	return f.snapshot()
}

// BeginReschedule starts the wizard at the date step for an existing
// confirmed appointment. The next Confirm moves it in place.
func (f *BookingFlow) BeginReschedule(_ context.Context, appointmentID string) (FlowSnapshot, error) {
	appointment, err := f.store.Get(appointmentID)
	if err != nil {
		return FlowSnapshot{}, err
	}
	if appointment.Status != models.StatusConfirmed {
		return FlowSnapshot{}, fmt.Errorf("%w: appointment is %s", ErrInvalidStep, appointment.Status)
	}

	staff, ok := f.catalog.StaffByID(appointment.StaffID)
	if !ok {
		staff = models.Staff{ID: appointment.StaffID, Name: appointment.StaffName}
	}
	staff.Name = appointment.StaffName
	service := models.Service{Name: appointment.ServiceName, Price: appointment.Price}
	for _, s := range f.catalog.Services() {
		if s.Name == appointment.ServiceName {
			service = s
			service.Price = appointment.Price
			break
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.reset()
	f.draft.Staff = &staff
	f.draft.Service = &service
	f.rescheduleID = appointmentID
	f.step = models.StepSelectDate
	f.logger.Debug().Str("appointment_id", appointmentID).Msg("reschedule started")
	return f.snapshot(), nil
}

// JoinWaitlist records the chosen staff and service on the waitlist and
// resets the wizard.
func (f *BookingFlow) JoinWaitlist(ctx context.Context) (models.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.draft.Staff == nil || f.draft.Service == nil {
		return models.WaitlistEntry{}, ErrIncompleteDraft
	}
	if f.rescheduleID != "" {
		return models.WaitlistEntry{}, fmt.Errorf("%w: cannot join waitlist while rescheduling", ErrInvalidStep)
	}

	entry := models.WaitlistEntry{
		ID:          uuid.NewString(),
		StaffID:     f.draft.Staff.ID,
		StaffName:   f.draft.Staff.Name,
		ServiceName: f.draft.Service.Name,
		CreatedAt:   f.now(),
		Status:      models.StatusWaitlist,
	}
	if err := f.waitlist.Add(ctx, entry); err != nil {
		return models.WaitlistEntry{}, err
	}

	f.reset()
	return entry, nil
}

func (f *BookingFlow) complete() bool {
	return f.draft.Staff != nil && f.draft.Service != nil && !f.draft.Date.IsZero() && f.draft.Time != ""
}

func (f *BookingFlow) reset() {
	f.step = models.StepSelectStaff
	f.draft = models.Draft{Date: catalog.StartOfDay(f.now(), f.loc)}
	f.rescheduleID = ""
}

func (f *BookingFlow) stepError(op string) error {
	return fmt.Errorf("%w: cannot %s in step %s", ErrInvalidStep, op, f.step)
}

func (f *BookingFlow) snapshot() FlowSnapshot {
	draft := f.draft
	if f.draft.Staff != nil {
		staff := f.draft.Staff.Clone()
		draft.Staff = &staff
	}
	if f.draft.Service != nil {
		service := *f.draft.Service
		draft.Service = &service
	}
	return FlowSnapshot{Step: f.step, Draft: draft, RescheduleID: f.rescheduleID}
}

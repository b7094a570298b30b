package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookyz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mustStaff(t *testing.T, fx *flowFixture, id int64) models.Staff {
	t.Helper()
	staff, ok := fx.catalog.StaffByID(id)
	require.True(t, ok)
	return staff
}

func mustService(t *testing.T, fx *flowFixture, name string) models.Service {
	t.Helper()
	service, ok := fx.catalog.ServiceByName(name)
	require.True(t, ok)
	return service
}

func bookThrough(t *testing.T, fx *flowFixture, staffID int64, serviceName string, day time.Time, slot string) models.Appointment {
	t.Helper()
	_, err := fx.flow.ChooseStaff(mustStaff(t, fx, staffID))
	require.NoError(t, err)
	_, err = fx.flow.ChooseService(mustService(t, fx, serviceName))
	require.NoError(t, err)
	_, err = fx.flow.ChooseDate(day)
	require.NoError(t, err)
	_, err = fx.flow.ChooseTime(slot)
	require.NoError(t, err)
	appt, err := fx.flow.Confirm(context.Background())
	require.NoError(t, err)
	return appt
}

func TestBookingFlow_HappyPath(t *testing.T) {
	fx := newFlowFixture()

	snap := fx.flow.Snapshot()
	assert.Equal(t, models.StepSelectStaff, snap.Step)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, testLoc), snap.Draft.Date)

	appt := bookThrough(t, fx, 2, "תספורת", testNow, "10:00")

	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, int64(2), appt.StaffID)
	assert.Equal(t, "ירון", appt.StaffName)
	assert.Equal(t, "תספורת", appt.ServiceName)
	assert.Equal(t, 80, appt.Price)
	assert.Equal(t, "10:00", appt.Time)
	assert.Equal(t, models.StatusConfirmed, appt.Status)
	assert.Equal(t, time.Date(2025, 3, 2, 10, 0, 0, 0, testLoc), appt.Date)
	assert.Equal(t, testNow, appt.CreatedAt)

	all := fx.store.All()
	require.Len(t, all, 1)
	assert.Equal(t, appt, all[0])

	snap = fx.flow.Snapshot()
	assert.Equal(t, models.StepSelectStaff, snap.Step)
	assert.Nil(t, snap.Draft.Staff)
	assert.Nil(t, snap.Draft.Service)
	assert.Empty(t, snap.Draft.Time)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, testLoc), snap.Draft.Date)
	assert.Empty(t, snap.RescheduleID)
}

func TestBookingFlow_Denormalization(t *testing.T) {
	fx := newFlowFixture()

	staff := mustStaff(t, fx, 1)
	service := mustService(t, fx, "All Scissors")

	_, err := fx.flow.ChooseStaff(staff)
	require.NoError(t, err)
	_, err = fx.flow.ChooseService(service)
	require.NoError(t, err)

	staff.Name = "renamed"
	staff.Stories[0].Viewed = true
	service.Name = "renamed"
	service.Price = 999

	_, err = fx.flow.ChooseDate(testNow.AddDate(0, 0, 1))
	require.NoError(t, err)
	_, err = fx.flow.ChooseTime("12:30")
	require.NoError(t, err)

	snap := fx.flow.Snapshot()
	assert.False(t, snap.Draft.Staff.Stories[0].Viewed)

	appt, err := fx.flow.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LIAM", appt.StaffName)
	assert.Equal(t, "All Scissors", appt.ServiceName)
	assert.Equal(t, 120, appt.Price)
}

func TestBookingFlow_SnapshotIsCopy(t *testing.T) {
	fx := newFlowFixture()
	_, err := fx.flow.ChooseStaff(mustStaff(t, fx, 1))
	require.NoError(t, err)

	snap := fx.flow.Snapshot()
	snap.Draft.Staff.Name = "changed"

	assert.Equal(t, "LIAM", fx.flow.Snapshot().Draft.Staff.Name)
}

func TestBookingFlow_GoBack(t *testing.T) {
	t.Run("FromServiceKeepsStaff", func(t *testing.T) {
		fx := newFlowFixture()
		_, err := fx.flow.ChooseStaff(mustStaff(t, fx, 1))
		require.NoError(t, err)

		snap, exit := fx.flow.GoBack()
		assert.False(t, exit)
		assert.Equal(t, models.StepSelectStaff, snap.Step)
		require.NotNil(t, snap.Draft.Staff)
		assert.Equal(t, int64(1), snap.Draft.Staff.ID)
		assert.Nil(t, snap.Draft.Service)
	})

	t.Run("WalksBackToExit", func(t *testing.T) {
		fx := newFlowFixture()
		_, _ = fx.flow.ChooseStaff(mustStaff(t, fx, 1))
		_, _ = fx.flow.ChooseService(mustService(t, fx, "תספורת"))
		_, _ = fx.flow.ChooseDate(testNow)
		_, err := fx.flow.ChooseTime("09:30")
		require.NoError(t, err)

		snap, exit := fx.flow.GoBack()
		assert.False(t, exit)
		assert.Equal(t, models.StepSelectTime, snap.Step)
		assert.Empty(t, snap.Draft.Time)
		assert.NotNil(t, snap.Draft.Service)

		snap, exit = fx.flow.GoBack()
		assert.False(t, exit)
		assert.Equal(t, models.StepSelectDate, snap.Step)
		assert.NotNil(t, snap.Draft.Service)

		snap, exit = fx.flow.GoBack()
		assert.False(t, exit)
		assert.Equal(t, models.StepSelectService, snap.Step)
		assert.Nil(t, snap.Draft.Service)
		assert.NotNil(t, snap.Draft.Staff)

		snap, exit = fx.flow.GoBack()
		assert.False(t, exit)
		assert.Equal(t, models.StepSelectStaff, snap.Step)
		assert.NotNil(t, snap.Draft.Staff)

		snap, exit = fx.flow.GoBack()
		assert.False(t, exit)
		assert.Nil(t, snap.Draft.Staff)

		_, exit = fx.flow.GoBack()
		assert.True(t, exit)
	})

	t.Run("ExitOnEmptyDraft", func(t *testing.T) {
		fx := newFlowFixture()
		snap, exit := fx.flow.GoBack()
		assert.True(t, exit)
		assert.Equal(t, models.StepSelectStaff, snap.Step)
	})
}

func TestBookingFlow_CancelNoLeakage(t *testing.T) {
	fx := newFlowFixture()
	_, _ = fx.flow.ChooseStaff(mustStaff(t, fx, 1))
	_, _ = fx.flow.ChooseService(mustService(t, fx, "תספורת וזקן"))
	_, _ = fx.flow.ChooseDate(testNow.AddDate(0, 0, 3))
	_, err := fx.flow.ChooseTime("14:30")
	require.NoError(t, err)

	snap := fx.flow.Cancel()
	assert.Equal(t, models.StepSelectStaff, snap.Step)
	assert.Nil(t, snap.Draft.Staff)
	assert.Nil(t, snap.Draft.Service)
	assert.Empty(t, snap.Draft.Time)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, testLoc), snap.Draft.Date)

	snap, err = fx.flow.ChooseStaff(mustStaff(t, fx, 3))
	require.NoError(t, err)
	assert.Equal(t, models.StepSelectService, snap.Step)
	assert.Equal(t, "אמיר", snap.Draft.Staff.Name)
	assert.Nil(t, snap.Draft.Service)
	assert.Empty(t, snap.Draft.Time)
	assert.Empty(t, fx.store.All())
}

func TestBookingFlow_StepGuards(t *testing.T) {
	fx := newFlowFixture()

	_, err := fx.flow.ChooseService(mustService(t, fx, "תספורת"))
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = fx.flow.ChooseDate(testNow)
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = fx.flow.ChooseTime("10:00")
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = fx.flow.ChooseStaff(models.Staff{})
	assert.ErrorIs(t, err, ErrInvalidStaff)

	_, err = fx.flow.ChooseStaff(mustStaff(t, fx, 1))
	require.NoError(t, err)
	_, err = fx.flow.ChooseStaff(mustStaff(t, fx, 2))
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = fx.flow.ChooseService(models.Service{Name: "broken", Price: -1, Duration: 10})
	assert.ErrorIs(t, err, ErrInvalidService)
	assert.Equal(t, models.StepSelectService, fx.flow.Snapshot().Step)
}

func TestBookingFlow_ConfirmIncomplete(t *testing.T) {
	fx := newFlowFixture()
	_, _ = fx.flow.ChooseStaff(mustStaff(t, fx, 1))
	_, err := fx.flow.ChooseService(mustService(t, fx, "תספורת"))
	require.NoError(t, err)

	before := fx.flow.Snapshot()
	_, err = fx.flow.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrIncompleteDraft)
	assert.Equal(t, before, fx.flow.Snapshot())
	assert.Empty(t, fx.store.All())
}

func TestBookingFlow_ChooseDate(t *testing.T) {
	cases := []struct {
		name string
		day  time.Time
		err  error
	}{
		{"Today", testNow, nil},
		{"TodayLaterHour", testNow.Add(10 * time.Hour), nil},
		{"LastDayOfWindow", testNow.AddDate(0, 0, 6), nil},
		{"Yesterday", testNow.AddDate(0, 0, -1), ErrPastDate},
		{"BeyondWindow", testNow.AddDate(0, 0, 7), ErrDateTooFar},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFlowFixture()
			_, _ = fx.flow.ChooseStaff(mustStaff(t, fx, 1))
			_, _ = fx.flow.ChooseService(mustService(t, fx, "תספורת"))

			snap, err := fx.flow.ChooseDate(tc.day)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.Equal(t, models.StepSelectDate, snap.Step)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.StepSelectTime, snap.Step)
			assert.Equal(t, 0, snap.Draft.Date.Hour())
		})
	}
}

func TestBookingFlow_UnknownTimeSlot(t *testing.T) {
	fx := newFlowFixture()
	_, _ = fx.flow.ChooseStaff(mustStaff(t, fx, 1))
	_, _ = fx.flow.ChooseService(mustService(t, fx, "תספורת"))
	_, _ = fx.flow.ChooseDate(testNow)

	_, err := fx.flow.ChooseTime("15:00")
	assert.ErrorIs(t, err, ErrUnknownTimeSlot)
	assert.Equal(t, models.StepSelectTime, fx.flow.Snapshot().Step)
}

func TestBookingFlow_ConfirmStoreFailureKeepsDraft(t *testing.T) {
	kv := new(mockKV)
	kv.On("Set", mock.Anything, models.KeyAppointments, mock.Anything).Return(errors.New("disk full"))

	fx := newFlowFixture()
	fx.store = NewAppointmentStore(kv, nil, testLogger())
	fx.flow.store = fx.store

	_, _ = fx.flow.ChooseStaff(mustStaff(t, fx, 1))
	_, _ = fx.flow.ChooseService(mustService(t, fx, "תספורת"))
	_, _ = fx.flow.ChooseDate(testNow)
	_, err := fx.flow.ChooseTime("11:00")
	require.NoError(t, err)

	_, err = fx.flow.Confirm(context.Background())
	assert.Error(t, err)

	snap := fx.flow.Snapshot()
	assert.Equal(t, models.StepConfirm, snap.Step)
	assert.Equal(t, "11:00", snap.Draft.Time)
	assert.Empty(t, fx.store.All())
	kv.AssertExpectations(t)
}

func TestBookingFlow_Reschedule(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()
	original := bookThrough(t, fx, 3, "פרימיום (תור כפול)", testNow, "09:00")

	snap, err := fx.flow.BeginReschedule(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StepSelectDate, snap.Step)
	assert.Equal(t, original.ID, snap.RescheduleID)
	assert.Equal(t, "אמיר", snap.Draft.Staff.Name)
	assert.Equal(t, "פרימיום (תור כפול)", snap.Draft.Service.Name)

	_, err = fx.flow.ChooseDate(testNow.AddDate(0, 0, 2))
	require.NoError(t, err)
	_, err = fx.flow.ChooseTime("13:00")
	require.NoError(t, err)

	moved, err := fx.flow.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, original.ID, moved.ID)
	assert.Equal(t, time.Date(2025, 3, 4, 13, 0, 0, 0, testLoc), moved.Date)
	assert.Equal(t, "13:00", moved.Time)
	assert.Equal(t, 170, moved.Price)

	all := fx.store.All()
	require.Len(t, all, 1)
	assert.Equal(t, moved, all[0])
	assert.Empty(t, fx.flow.Snapshot().RescheduleID)
}

func TestBookingFlow_RescheduleGuards(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()

	_, err := fx.flow.BeginReschedule(ctx, "missing")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	appt := bookThrough(t, fx, 1, "תספורת", testNow, "10:00")
	_, err = fx.store.UpdateStatus(ctx, appt.ID, models.StatusCancelled)
	require.NoError(t, err)

	_, err = fx.flow.BeginReschedule(ctx, appt.ID)
	assert.ErrorIs(t, err, ErrInvalidStep)

	other := bookThrough(t, fx, 2, "תספורת", testNow, "11:00")
	_, err = fx.flow.BeginReschedule(ctx, other.ID)
	require.NoError(t, err)

	snap, exit := fx.flow.GoBack()
	assert.True(t, exit)
	assert.Equal(t, models.StepSelectStaff, snap.Step)
	assert.Empty(t, snap.RescheduleID)
	assert.Nil(t, snap.Draft.Staff)
}

func TestBookingFlow_JoinWaitlist(t *testing.T) {
	fx := newFlowFixture()
	ctx := context.Background()

	_, err := fx.flow.JoinWaitlist(ctx)
	assert.ErrorIs(t, err, ErrIncompleteDraft)

	_, _ = fx.flow.ChooseStaff(mustStaff(t, fx, 4))
	_, err = fx.flow.ChooseService(mustService(t, fx, "תספורת"))
	require.NoError(t, err)

	entry, err := fx.flow.JoinWaitlist(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "עמית", entry.StaffName)
	assert.Equal(t, "תספורת", entry.ServiceName)
	assert.Equal(t, models.StatusWaitlist, entry.Status)

	assert.Len(t, fx.waitlist.All(), 1)
	assert.Equal(t, models.StepSelectStaff, fx.flow.Snapshot().Step)

	reloaded := NewWaitlistService(fx.kv, nil, testLogger())
	require.NoError(t, reloaded.Load(ctx))
	assert.Len(t, reloaded.All(), 1)
}

func TestNewBookingFlow_Defaults(t *testing.T) {
	fx := newFlowFixture()
	flow := NewBookingFlow(fx.catalog, fx.store, fx.waitlist, nil, 0, testLogger())
	assert.Equal(t, models.DefaultBookingDays, flow.bookingDays)
	assert.Equal(t, time.Local, flow.loc)
}

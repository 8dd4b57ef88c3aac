package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/domain"
	salonRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/salon"
	"github.com/m04kA/SalonBookingService/pkg/ptr"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeAppointments struct {
	byDate map[string][]*domain.Appointment
	err    error
}

func (f *fakeAppointments) GetBySalonWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Appointment
	for _, a := range f.byDate[*filter.StartDate] {
		if filter.StaffID != nil && (a.StaffID == nil || *a.StaffID != *filter.StaffID) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeCalendars map[int64]*domain.SalonCalendar

func (f fakeCalendars) GetCalendar(_ context.Context, salonID int64) (*domain.SalonCalendar, error) {
	c, ok := f[salonID]
	if !ok {
		return nil, salonRepo.ErrCalendarNotFound
	}
	return c, nil
}

func booked(at types.TimeString, duration int, status domain.Status) *domain.Appointment {
	a := &domain.Appointment{
		SalonID:           1,
		CustomerID:        10,
		AppointmentDate:   "2025-03-10",
		AppointmentTime:   at,
		EstimatedDuration: duration,
		Status:            status,
	}
	_ = a.RecalculateSchedule()
	return a
}

func newUseCase(now time.Time, repo *fakeAppointments) *UseCase {
	calendars := fakeCalendars{
		1: {SalonID: 1, OwnerID: 50, WorkingDays: []string{"Monday"}, OpenTime: "09:00", CloseTime: "12:00"},
	}
	return NewUseCase(repo, calendars, nopLogger{}).WithTimeProvider(fixedTime{t: now})
}

func starts(slots []domain.AvailableSlot) []types.TimeString {
	out := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime)
	}
	return out
}

func TestExecute_ListsFreeSlots(t *testing.T) {
	repo := &fakeAppointments{byDate: map[string][]*domain.Appointment{
		"2025-03-10": {
			booked("10:00", 30, domain.StatusApproved),
			booked("11:00", 30, domain.StatusCancelled),
		},
	}}
	uc := newUseCase(time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC), repo)

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, Date: "2025-03-10"})
	require.NoError(t, err)

	assert.True(t, resp.IsWorkingDay)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:30", "11:00", "11:30"}, starts(resp.Slots))
}

func TestExecute_UsesServiceDuration(t *testing.T) {
	repo := &fakeAppointments{byDate: map[string][]*domain.Appointment{
		"2025-03-10": {booked("10:00", 30, domain.StatusPending)},
	}}
	uc := newUseCase(time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC), repo)

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, Date: "2025-03-10T00:00:00Z", DurationMinutes: 60})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"09:00", "10:30", "11:00", "11:30"}, starts(resp.Slots))
	assert.Equal(t, 60, resp.Slots[0].DurationMinutes)
}

func TestExecute_LastSlotMayRunPastClose(t *testing.T) {
	uc := newUseCase(time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC), &fakeAppointments{})

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, Date: "2025-03-10", DurationMinutes: 90})
	require.NoError(t, err)

	// старт до закрытия достаточен, окончание после 12:00 допустимо
	require.NotEmpty(t, resp.Slots)
	last := resp.Slots[len(resp.Slots)-1]
	assert.Equal(t, types.TimeString("11:30"), last.StartTime)
	assert.Equal(t, types.TimeString("13:00"), last.EndTime)
}

func TestExecute_FiltersByStaff(t *testing.T) {
	withStaff := func(a *domain.Appointment, staffID int64) *domain.Appointment {
		a.StaffID = ptr.Ptr(staffID)
		return a
	}
	repo := &fakeAppointments{byDate: map[string][]*domain.Appointment{
		"2025-03-10": {
			withStaff(booked("09:00", 30, domain.StatusApproved), 7),
			withStaff(booked("10:00", 30, domain.StatusApproved), 8),
		},
	}}
	uc := newUseCase(time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC), repo)

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, Date: "2025-03-10", StaffID: ptr.Ptr(int64(7))})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:30", "10:00", "10:30", "11:00", "11:30"}, starts(resp.Slots))

	resp, err = uc.Execute(context.Background(), &Request{SalonID: 1, Date: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:30", "10:30", "11:00", "11:30"}, starts(resp.Slots))

	_, err = uc.Execute(context.Background(), &Request{SalonID: 1, Date: "2025-03-10", StaffID: ptr.Ptr(int64(0))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_TodaySkipsStartedSlots(t *testing.T) {
	uc := newUseCase(time.Date(2025, 3, 10, 10, 10, 0, 0, time.UTC), &fakeAppointments{})

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, Date: "2025-03-10"})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"10:30", "11:00", "11:30"}, starts(resp.Slots))
}

func TestExecute_ClosedAndPastDays(t *testing.T) {
	uc := newUseCase(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), &fakeAppointments{})

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, Date: "2025-03-11"})
	require.NoError(t, err)
	assert.False(t, resp.IsWorkingDay)
	assert.Empty(t, resp.Slots)

	resp, err = uc.Execute(context.Background(), &Request{SalonID: 1, Date: "2025-03-03"})
	require.NoError(t, err)
	assert.True(t, resp.IsWorkingDay)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	_, err := newUseCase(now, &fakeAppointments{}).Execute(context.Background(), &Request{SalonID: 1, Date: "soon"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = newUseCase(now, &fakeAppointments{}).Execute(context.Background(), &Request{SalonID: 2, Date: "2025-03-10"})
	assert.ErrorIs(t, err, ErrSalonNotFound)

	_, err = newUseCase(now, &fakeAppointments{err: errors.New("timeout")}).
		Execute(context.Background(), &Request{SalonID: 1, Date: "2025-03-10"})
	assert.ErrorIs(t, err, ErrInternal)
}

package salons

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/domain"
	salonRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/salon"
	"github.com/m04kA/SalonBookingService/internal/service/salons/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeCalendars struct {
	items map[int64]domain.SalonCalendar
	err   error
}

func (f *fakeCalendars) GetCalendar(_ context.Context, salonID int64) (*domain.SalonCalendar, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.items[salonID]
	if !ok {
		return nil, salonRepo.ErrCalendarNotFound
	}
	return &c, nil
}

func (f *fakeCalendars) UpsertCalendar(_ context.Context, c *domain.SalonCalendar) (*domain.SalonCalendar, error) {
	f.items[c.SalonID] = *c
	return c, nil
}

func TestUpdateCalendar_CreatesWithOwner(t *testing.T) {
	repo := &fakeCalendars{items: map[int64]domain.SalonCalendar{}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.UpdateCalendar(context.Background(), &models.UpdateCalendarRequest{
		UserID:      50,
		SalonID:     1,
		WorkingDays: []string{"fri", "Monday"},
		OpenTime:    "09:00",
		CloseTime:   "17:00",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(50), resp.OwnerID)
	assert.Equal(t, []string{"Monday", "Friday"}, resp.WorkingDays)
	assert.Equal(t, int64(50), repo.items[1].OwnerID)
}

func TestUpdateCalendar_OwnerOnly(t *testing.T) {
	repo := &fakeCalendars{items: map[int64]domain.SalonCalendar{
		1: {SalonID: 1, OwnerID: 50, WorkingDays: []string{"Monday"}, OpenTime: "09:00", CloseTime: "17:00"},
	}}
	svc := NewService(repo, nopLogger{})
	req := &models.UpdateCalendarRequest{UserID: 51, SalonID: 1, WorkingDays: []string{"Tuesday"}, OpenTime: "10:00", CloseTime: "18:00"}

	_, err := svc.UpdateCalendar(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)

	req.UserID = 50
	resp, err := svc.UpdateCalendar(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "10:00", resp.OpenTime)
}

func TestUpdateCalendar_Invalid(t *testing.T) {
	svc := NewService(&fakeCalendars{items: map[int64]domain.SalonCalendar{}}, nopLogger{})

	_, err := svc.UpdateCalendar(context.Background(), &models.UpdateCalendarRequest{
		UserID: 50, SalonID: 1, WorkingDays: []string{"Monday"}, OpenTime: "18:00", CloseTime: "09:00",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateCalendar(context.Background(), &models.UpdateCalendarRequest{
		UserID: 50, SalonID: 1, WorkingDays: []string{"Caturday"}, OpenTime: "09:00", CloseTime: "18:00",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateCalendar(context.Background(), &models.UpdateCalendarRequest{
		UserID: 50, SalonID: 1, OpenTime: "9am", CloseTime: "18:00",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCalendar(t *testing.T) {
	repo := &fakeCalendars{items: map[int64]domain.SalonCalendar{
		1: {SalonID: 1, OwnerID: 50, OpenTime: "09:00", CloseTime: "17:00"},
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetCalendar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{}, resp.WorkingDays)

	_, err = svc.GetCalendar(context.Background(), 2)
	assert.ErrorIs(t, err, ErrCalendarNotFound)

	repo.err = errors.New("boom")
	_, err = svc.GetCalendar(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInternal)
}

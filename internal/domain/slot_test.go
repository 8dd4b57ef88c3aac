package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

func TestGenerateSlots(t *testing.T) {
	slots := GenerateSlots("09:00", "11:00", 30)
	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00", "10:30"}, slots)

	// незакрытый хвост тоже дает слот
	slots = GenerateSlots("09:00", "10:15", 30)
	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00"}, slots)

	assert.Empty(t, GenerateSlots("17:00", "09:00", 30))
	assert.Empty(t, GenerateSlots("09:00", "09:00", 30))
	assert.Empty(t, GenerateSlots("", "17:00", 30))
	assert.Empty(t, GenerateSlots("09:00", "", 30))
	assert.Empty(t, GenerateSlots("09:00", "17:00", 0))
}

func TestGenerateSlots_CountAndSpacing(t *testing.T) {
	for start := 0; start < types.MinutesPerDay; start += 45 {
		for end := start + 1; end < types.MinutesPerDay; end += 37 {
			slots := GenerateSlots(types.TimeStringFromMinutes(start), types.TimeStringFromMinutes(end), 30)

			want := (end - start + 29) / 30
			if !assert.Len(t, slots, want, "start=%d end=%d", start, end) {
				return
			}
			assert.Equal(t, types.TimeStringFromMinutes(start), slots[0])
			for i := 1; i < len(slots); i++ {
				assert.Equal(t, 30, types.TimeToMinutes(slots[i].String())-types.TimeToMinutes(slots[i-1].String()))
			}
		}
	}
}

func TestOverlaps(t *testing.T) {
	// кандидат внутри брони
	assert.True(t, Overlaps(615, 10, 600, 660))
	// заканчивается ровно в начале брони
	assert.False(t, Overlaps(570, 30, 600, 630))
	// начинается ровно в конце брони
	assert.False(t, Overlaps(630, 30, 600, 630))
	// частичное пересечение
	assert.True(t, Overlaps(590, 30, 600, 630))
	// бронь внутри кандидата
	assert.True(t, Overlaps(540, 120, 600, 630))
}

func TestHasConflict(t *testing.T) {
	booked := []BookedInterval{{Start: 600, End: 630}, {Start: 720, End: 780}}

	assert.False(t, HasConflict(540, 60, booked))
	assert.True(t, HasConflict(570, 60, booked))
	assert.False(t, HasConflict(630, 90, booked))
	assert.True(t, HasConflict(750, 30, booked))
	assert.False(t, HasConflict(600, 30, nil))
}

func TestOccupiedIntervals_OnlyOccupyingStatuses(t *testing.T) {
	build := func(status Status, at types.TimeString) *Appointment {
		a := newAppointment()
		a.Status = status
		a.AppointmentTime = at
		a.EstimatedDuration = 30
		_ = a.RecalculateSchedule()
		return a
	}

	malformed := build(StatusPending, "10:00")
	malformed.AppointmentTime = "xx:yy"

	intervals := OccupiedIntervals([]*Appointment{
		build(StatusPending, "09:00"),
		build(StatusApproved, "10:00"),
		build(StatusInProgress, "11:00"),
		build(StatusCompleted, "12:00"),
		build(StatusCancelled, "13:00"),
		build(StatusNoShow, "14:00"),
		build(StatusStaffBlocked, "15:00"),
		malformed,
		nil,
	})

	assert.Equal(t, []BookedInterval{
		{Start: 540, End: 570},
		{Start: 600, End: 630},
		{Start: 660, End: 690},
	}, intervals)
}

func TestFreeSlots(t *testing.T) {
	calendar := &SalonCalendar{
		SalonID:     1,
		OwnerID:     2,
		WorkingDays: []string{"Monday"},
		OpenTime:    "09:00",
		CloseTime:   "11:00",
	}
	booked := []BookedInterval{{Start: 600, End: 630}}

	slots := FreeSlots(calendar, booked, 30, 0)
	starts := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime)
	}
	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:30"}, starts)
	assert.Equal(t, types.TimeString("09:30"), slots[0].EndTime)

	// 60-минутная услуга не помещается в 09:30
	slots = FreeSlots(calendar, booked, 60, 0)
	assert.Len(t, slots, 2)
	assert.Equal(t, types.TimeString("09:00"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("10:30"), slots[1].StartTime)

	// уже прошедшие слоты отбрасываются
	slots = FreeSlots(calendar, booked, 30, 570)
	assert.Equal(t, types.TimeString("09:30"), slots[0].StartTime)

	// длительность по умолчанию
	slots = FreeSlots(calendar, nil, 0, 0)
	assert.Equal(t, DefaultServiceDuration, slots[0].DurationMinutes)

	assert.Nil(t, FreeSlots(&SalonCalendar{}, nil, 30, 0))
	assert.Nil(t, FreeSlots(nil, nil, 30, 0))
}

func TestSalonCalendar_IsWorkingDay(t *testing.T) {
	calendar := &SalonCalendar{WorkingDays: []string{"monday", "Wed", "Friday"}}

	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, calendar.IsWorkingDay(monday))
	assert.False(t, calendar.IsWorkingDay(monday.AddDate(0, 0, 1)))
	assert.True(t, calendar.IsWorkingDay(monday.AddDate(0, 0, 2)))
	assert.True(t, calendar.IsWorkingDay(monday.AddDate(0, 0, 4)))
	assert.False(t, calendar.IsWorkingDay(monday.AddDate(0, 0, 6)))
}

func TestSalonCalendar_Validate(t *testing.T) {
	calendar := &SalonCalendar{
		SalonID:     1,
		OwnerID:     2,
		WorkingDays: []string{"sat", "Monday", "mon"},
		OpenTime:    "09:00",
		CloseTime:   "17:00",
	}
	assert.NoError(t, calendar.Validate())
	assert.Equal(t, []string{"Monday", "Saturday"}, calendar.WorkingDays)

	calendar.CloseTime = "08:00"
	assert.ErrorIs(t, calendar.Validate(), ErrInvalidCalendar)

	calendar.CloseTime = "17:00"
	calendar.WorkingDays = []string{"Funday"}
	assert.ErrorIs(t, calendar.Validate(), ErrInvalidCalendar)
}

func TestSalonCalendar_IsOpenAt(t *testing.T) {
	calendar := &SalonCalendar{OpenTime: "09:00", CloseTime: "17:00"}

	assert.True(t, calendar.IsOpenAt("09:00"))
	assert.True(t, calendar.IsOpenAt("16:30"))
	assert.False(t, calendar.IsOpenAt("17:00"))
	assert.False(t, calendar.IsOpenAt("08:59"))
	assert.False(t, calendar.IsOpenAt("bad"))
}

func TestNewRevenueRecords(t *testing.T) {
	a := newAppointment()
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	records := NewRevenueRecords(a, 77, now)

	if assert.Len(t, records, 2) {
		assert.Equal(t, 0, records[0].LineIndex)
		assert.Equal(t, 1, records[1].LineIndex)
		assert.Equal(t, "Beard trim", records[1].ServiceName)
		assert.Equal(t, 10.0, records[1].Amount)
		assert.Equal(t, int64(77), records[0].OwnerID)
		assert.Equal(t, a.ID, records[0].AppointmentID)
		assert.NotEqual(t, records[0].ID, records[1].ID)
	}
}

func TestNextSlot(t *testing.T) {
	calendar := &SalonCalendar{WorkingDays: []string{"Monday"}, OpenTime: "09:00", CloseTime: "17:00"}

	slot, ok := NextSlot(calendar, []BookedInterval{{Start: 600, End: 630}}, 30, 0)
	assert.True(t, ok)
	assert.Equal(t, types.TimeString("09:00"), slot.StartTime)

	_, ok = NextSlot(calendar, []BookedInterval{{Start: 540, End: 1020}}, 30, 0)
	assert.False(t, ok)
}

func TestNotBeforeMinutes(t *testing.T) {
	now := time.Date(2025, 3, 10, 13, 7, 0, 0, time.UTC)

	assert.Equal(t, 787, NotBeforeMinutes(now, now))
	assert.Equal(t, 0, NotBeforeMinutes(now.AddDate(0, 0, 1), now))
	assert.Equal(t, types.MinutesPerDay, NotBeforeMinutes(now.AddDate(0, 0, -1), now))
}

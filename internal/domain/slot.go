package domain

import (
	"time"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// BookedInterval is an occupied [Start, End) range in minutes since midnight
type BookedInterval struct {
	Start int
	End   int
}

// AvailableSlot represents a free start time for a service of the given duration
type AvailableSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}

// GenerateSlots returns candidate start times from openTime, stepping by
// stepMinutes, strictly before closeTime. Empty if either bound is missing
// or openTime is not before closeTime.
func GenerateSlots(openTime, closeTime types.TimeString, stepMinutes int) []types.TimeString {
	if stepMinutes <= 0 {
		return nil
	}
	open, err := openTime.Minutes()
	if err != nil {
		return nil
	}
	closeAt, err := closeTime.Minutes()
	if err != nil || open >= closeAt {
		return nil
	}

	slots := make([]types.TimeString, 0, (closeAt-open+stepMinutes-1)/stepMinutes)
	for m := open; m < closeAt; m += stepMinutes {
		slots = append(slots, types.TimeStringFromMinutes(m))
	}
	return slots
}

// Overlaps reports whether [candidateStart, candidateStart+candidateDuration)
// intersects [bookedStart, bookedEnd). Touching endpoints do not overlap.
func Overlaps(candidateStart, candidateDuration, bookedStart, bookedEnd int) bool {
	return candidateStart < bookedEnd && candidateStart+candidateDuration > bookedStart
}

// HasConflict reports whether the candidate overlaps any of the booked intervals
func HasConflict(candidateStart, candidateDuration int, booked []BookedInterval) bool {
	for _, b := range booked {
		if Overlaps(candidateStart, candidateDuration, b.Start, b.End) {
			return true
		}
	}
	return false
}

// OccupiedIntervals collects intervals of appointments in occupying statuses.
// Appointments with a malformed start time are skipped.
func OccupiedIntervals(appointments []*Appointment) []BookedInterval {
	intervals := make([]BookedInterval, 0, len(appointments))
	for _, a := range appointments {
		if a == nil || !a.Status.IsOccupying() {
			continue
		}
		interval, ok := a.Interval()
		if !ok {
			continue
		}
		intervals = append(intervals, interval)
	}
	return intervals
}

// FreeSlots returns the candidate slots of the calendar that do not overlap
// any booked interval, using durationMinutes as the candidate width.
// Slots starting before notBeforeMinutes are dropped (pass 0 to keep all).
func FreeSlots(calendar *SalonCalendar, booked []BookedInterval, durationMinutes, notBeforeMinutes int) []AvailableSlot {
	if calendar == nil || !calendar.HasBusinessHours() {
		return nil
	}
	if durationMinutes <= 0 {
		durationMinutes = DefaultServiceDuration
	}

	var free []AvailableSlot
	for _, candidate := range GenerateSlots(calendar.OpenTime, calendar.CloseTime, SlotStepMinutes) {
		start, _ := candidate.Minutes()
		if start < notBeforeMinutes {
			continue
		}
		if HasConflict(start, durationMinutes, booked) {
			continue
		}
		free = append(free, AvailableSlot{
			StartTime:       candidate,
			EndTime:         types.TimeStringFromMinutes(start + durationMinutes),
			DurationMinutes: durationMinutes,
		})
	}
	return free
}

// NextSlot returns the earliest free slot of the calendar, if any
func NextSlot(calendar *SalonCalendar, booked []BookedInterval, durationMinutes, notBeforeMinutes int) (AvailableSlot, bool) {
	free := FreeSlots(calendar, booked, durationMinutes, notBeforeMinutes)
	if len(free) == 0 {
		return AvailableSlot{}, false
	}
	return free[0], true
}

// NotBeforeMinutes returns the earliest slot start allowed on day given now:
// 0 for future days, the current minute for today and MinutesPerDay for past days.
func NotBeforeMinutes(day, now time.Time) int {
	y1, m1, d1 := day.Date()
	y2, m2, d2 := now.Date()
	dayOnly := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)

	switch {
	case dayOnly.After(today):
		return 0
	case dayOnly.Equal(today):
		return now.Hour()*60 + now.Minute()
	default:
		return types.MinutesPerDay
	}
}

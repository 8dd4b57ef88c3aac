package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// SalonCalendar holds the business hours of a salon
type SalonCalendar struct {
	SalonID     int64
	OwnerID     int64
	WorkingDays []string // полные английские названия дней недели: Monday, Tuesday ...
	OpenTime    types.TimeString
	CloseTime   types.TimeString
	UpdatedAt   time.Time
}

// HasBusinessHours returns true if both open and close times are set and valid
func (c *SalonCalendar) HasBusinessHours() bool {
	open, err := c.OpenTime.Minutes()
	if err != nil {
		return false
	}
	closeAt, err := c.CloseTime.Minutes()
	if err != nil {
		return false
	}
	return open < closeAt
}

// IsWorkingDay returns true if the weekday of day is in the working day list
func (c *SalonCalendar) IsWorkingDay(day time.Time) bool {
	weekday := day.Weekday().String()
	for _, d := range c.WorkingDays {
		if name, ok := ParseWeekday(d); ok && name == weekday {
			return true
		}
	}
	return false
}

// IsOpenAt returns true if start lies within [openTime, closeTime)
func (c *SalonCalendar) IsOpenAt(start types.TimeString) bool {
	if !c.HasBusinessHours() {
		return false
	}
	m, err := start.Minutes()
	if err != nil {
		return false
	}
	return m >= types.TimeToMinutes(c.OpenTime.String()) && m < types.TimeToMinutes(c.CloseTime.String())
}

// IsOwner returns true if userID owns the salon
func (c *SalonCalendar) IsOwner(userID int64) bool {
	return c.OwnerID == userID
}

// Validate checks working days and business hours
func (c *SalonCalendar) Validate() error {
	if c.SalonID <= 0 {
		return fmt.Errorf("%w: salon is required", ErrInvalidCalendar)
	}
	if c.OwnerID <= 0 {
		return fmt.Errorf("%w: owner is required", ErrInvalidCalendar)
	}
	days, err := NormalizeWorkingDays(c.WorkingDays)
	if err != nil {
		return err
	}
	c.WorkingDays = days
	if err := c.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: open time: %v", ErrInvalidCalendar, err)
	}
	if err := c.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: close time: %v", ErrInvalidCalendar, err)
	}
	if !c.OpenTime.IsBefore(c.CloseTime) {
		return fmt.Errorf("%w: open time %s must be before close time %s", ErrInvalidCalendar, c.OpenTime, c.CloseTime)
	}
	return nil
}

// ParseWeekday accepts a full or short weekday name in any case and
// returns the full English name
func ParseWeekday(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return "", false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if s == full || s == full[:3] {
			return d.String(), true
		}
	}
	return "", false
}

// NormalizeWorkingDays converts day names to full English names in week order
// and drops duplicates
func NormalizeWorkingDays(days []string) ([]string, error) {
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		name, ok := ParseWeekday(d)
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidCalendar, d)
		}
		seen[name] = true
	}

	result := make([]string, 0, len(seen))
	for _, d := range weekOrder {
		if seen[d.String()] {
			result = append(result, d.String())
		}
	}
	return result, nil
}

var weekOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

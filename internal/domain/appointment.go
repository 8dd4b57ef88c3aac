package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// Status represents the lifecycle status of an appointment
type Status string

const (
	StatusPending      Status = "Pending"
	StatusApproved     Status = "Approved"
	StatusInProgress   Status = "In-Progress"
	StatusCompleted    Status = "Completed"
	StatusCancelled    Status = "Cancelled"
	StatusNoShow       Status = "No-Show"
	StatusStaffBlocked Status = "STAFF_BLOCKED"
)

// AllStatuses список всех статусов в порядке жизненного цикла
var AllStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
	StatusStaffBlocked,
}

// OccupyingStatuses статусы, занимающие слот в календаре салона
var OccupyingStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusInProgress,
}

// InactiveStatuses статусы, скрываемые из списков салона по умолчанию
var InactiveStatuses = []Status{
	StatusCancelled,
	StatusNoShow,
}

// IsValid returns true if the status is one of the known statuses
func (s Status) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsOccupying returns true if an appointment in this status reserves a slot
func (s Status) IsOccupying() bool {
	for _, st := range OccupyingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ServiceLine is a snapshot of a booked service taken at booking time
type ServiceLine struct {
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
}

// Rating is the customer's feedback score for a completed appointment
type Rating struct {
	Overall  int  `json:"overall"`
	Service  *int `json:"service,omitempty"`
	Staff    *int `json:"staff,omitempty"`
	Ambiance *int `json:"ambiance,omitempty"`
}

// Appointment represents a customer's booking at a salon
type Appointment struct {
	ID         uuid.UUID
	SalonID    int64
	CustomerID int64 // 0 для блокировок времени мастера
	StaffID    *int64

	Services []ServiceLine

	AppointmentDate   string // YYYY-MM-DDTHH:mm
	AppointmentTime   types.TimeString
	EstimatedDuration int // minutes
	EstimatedEndTime  types.TimeString
	ActualStartTime   types.TimeString
	ActualEndTime     types.TimeString

	TotalAmount float64
	FinalAmount float64

	Status Status

	CustomerNotes      *string
	StaffNotes         *string
	SalonNotes         *string
	CancellationReason *string
	CancelledBy        *string
	Rating             *Rating
	Feedback           *string

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServicesDuration returns the sum of the line item durations
func (a *Appointment) ServicesDuration() int {
	total := 0
	for _, s := range a.Services {
		total += s.Duration
	}
	return total
}

// ServicesTotal returns the sum of the line item prices
func (a *Appointment) ServicesTotal() float64 {
	total := 0.0
	for _, s := range a.Services {
		total += s.Price
	}
	return total
}

// RecalculateSchedule normalizes the appointment date and derives the
// estimated duration and end time. It must run before every write.
func (a *Appointment) RecalculateSchedule() error {
	if a.EstimatedDuration <= 0 {
		a.EstimatedDuration = a.ServicesDuration()
	}

	date, err := types.NormalizeDateTime(a.AppointmentDate)
	if err != nil {
		return err
	}

	// время из appointmentTime главнее времени внутри даты
	if a.AppointmentTime.IsZero() {
		a.AppointmentTime = types.TimeString(date[len(types.DateLayout)+1:])
	} else {
		date, err = types.CombineDateAndTime(date, a.AppointmentTime)
		if err != nil {
			return err
		}
	}
	a.AppointmentDate = date

	end, err := a.AppointmentTime.AddMinutes(a.EstimatedDuration)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAppointment, err)
	}
	a.EstimatedEndTime = end

	return nil
}

// Validate checks the invariants that must hold before persistence
func (a *Appointment) Validate() error {
	if a.SalonID <= 0 {
		return fmt.Errorf("%w: salon is required", ErrInvalidAppointment)
	}
	if a.Status == StatusStaffBlocked {
		if a.StaffID == nil {
			return fmt.Errorf("%w: staff is required for a blocked time", ErrInvalidAppointment)
		}
	} else if a.CustomerID <= 0 {
		return fmt.Errorf("%w: customer is required", ErrInvalidAppointment)
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, a.Status)
	}
	if len(a.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidAppointment)
	}
	if !types.IsCanonicalDateTime(a.AppointmentDate) {
		return fmt.Errorf("%w: %q", types.ErrInvalidDate, a.AppointmentDate)
	}
	if err := a.AppointmentTime.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAppointment, err)
	}
	if a.AppointmentDate[len(types.DateLayout)+1:] != a.AppointmentTime.String() {
		return fmt.Errorf("%w: date %s does not match time %s", ErrInvalidAppointment, a.AppointmentDate, a.AppointmentTime)
	}
	if a.EstimatedDuration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidAppointment)
	}
	if a.TotalAmount < 0 || a.FinalAmount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidAppointment)
	}
	return nil
}

// Date returns the calendar day (YYYY-MM-DD) of the appointment
func (a *Appointment) Date() string {
	return types.DatePart(a.AppointmentDate)
}

// StartsAt reconstructs the absolute start instant in loc
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	dateTime := a.AppointmentDate
	if !a.AppointmentTime.IsZero() {
		combined, err := types.CombineDateAndTime(a.AppointmentDate, a.AppointmentTime)
		if err != nil {
			return time.Time{}, err
		}
		dateTime = combined
	}
	return types.ParseDateTime(dateTime, loc)
}

// CanBeCancelled returns true if the appointment starts more than
// CancellationWindow after now. The check is advisory and does not change status.
func (a *Appointment) CanBeCancelled(now time.Time) bool {
	start, err := a.StartsAt(now.Location())
	if err != nil {
		return false
	}
	return start.Sub(now) > CancellationWindow
}

// IsTerminal returns true if no further status changes are allowed
func (a *Appointment) IsTerminal() bool {
	return len(transitions[a.Status]) == 0
}

// CanBeRated returns true if the appointment is completed and not rated yet
func (a *Appointment) CanBeRated() bool {
	return a.Status == StatusCompleted && a.Rating == nil
}

// Interval returns the occupied [start, end) range in minutes since midnight.
// ok is false when the stored start time is malformed.
func (a *Appointment) Interval() (BookedInterval, bool) {
	start, err := a.AppointmentTime.Minutes()
	if err != nil {
		return BookedInterval{}, false
	}

	end, err := a.EstimatedEndTime.Minutes()
	if err != nil {
		end = start + a.EstimatedDuration
	} else if end <= start && a.EstimatedDuration > 0 {
		// окончание перешло через полночь
		end = types.MinutesPerDay
	}
	if end > types.MinutesPerDay {
		end = types.MinutesPerDay
	}

	return BookedInterval{Start: start, End: end}, true
}

// AppointmentsFilter фильтр для получения записей салона
type AppointmentsFilter struct {
	SalonID         int64    // Обязательный параметр
	StartDate       *string  // YYYY-MM-DD включительно (опционально)
	EndDate         *string  // YYYY-MM-DD включительно (опционально)
	Statuses        []Status // Фильтр по статусам (опционально, любой из)
	StaffID         *int64   // Фильтр по мастеру (опционально)
	IncludeInactive bool     // Включать ли отмененные и no-show
}

// OccupyingFilter returns a filter for occupying appointments of a salon on one day
func OccupyingFilter(salonID int64, date string) AppointmentsFilter {
	return AppointmentsFilter{
		SalonID:   salonID,
		StartDate: &date,
		EndDate:   &date,
		Statuses:  OccupyingStatuses,
	}
}

package models

import (
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// UpdateCalendarRequest запрос на обновление календаря салона.
// Первое сохранение закрепляет пользователя владельцем салона.
type UpdateCalendarRequest struct {
	UserID      int64    `json:"-" validate:"gt=0"`
	SalonID     int64    `json:"-" validate:"gt=0"`
	WorkingDays []string `json:"workingDays" validate:"max=7"`
	OpenTime    string   `json:"openTime" validate:"required,hhmm"`
	CloseTime   string   `json:"closeTime" validate:"required,hhmm"`
}

// ToDomainCalendar конвертирует request в domain модель
func (r *UpdateCalendarRequest) ToDomainCalendar(ownerID int64) *domain.SalonCalendar {
	return &domain.SalonCalendar{
		SalonID:     r.SalonID,
		OwnerID:     ownerID,
		WorkingDays: r.WorkingDays,
		OpenTime:    types.TimeString(r.OpenTime),
		CloseTime:   types.TimeString(r.CloseTime),
	}
}

// CalendarResponse ответ с календарем салона
type CalendarResponse struct {
	SalonID     int64     `json:"salonId"`
	OwnerID     int64     `json:"ownerId"`
	WorkingDays []string  `json:"workingDays"`
	OpenTime    string    `json:"openTime"`
	CloseTime   string    `json:"closeTime"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromDomainCalendar конвертирует domain модель в DTO
func FromDomainCalendar(c *domain.SalonCalendar) *CalendarResponse {
	if c == nil {
		return nil
	}
	days := c.WorkingDays
	if days == nil {
		days = []string{}
	}
	return &CalendarResponse{
		SalonID:     c.SalonID,
		OwnerID:     c.OwnerID,
		WorkingDays: days,
		OpenTime:    c.OpenTime.String(),
		CloseTime:   c.CloseTime.String(),
		UpdatedAt:   c.UpdatedAt,
	}
}

package get_available_slots

import (
	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// Request модель запроса на получение свободных слотов на день
type Request struct {
	SalonID         int64  `validate:"gt=0"`              // ID салона
	Date            string `validate:"required,apptdate"` // Дата (YYYY-MM-DD или ISO)
	DurationMinutes int    `validate:"gte=0,max=720"`     // Длительность услуги (0 - по умолчанию)
	StaffID         *int64 `validate:"omitempty,gt=0"`    // Занятость только этого мастера (опционально)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	SalonID      int64
	Date         string // YYYY-MM-DD
	IsWorkingDay bool
	OpenTime     types.TimeString
	CloseTime    types.TimeString
	Slots        []domain.AvailableSlot
}

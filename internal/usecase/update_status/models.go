package update_status

import (
	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// DefaultMaxAttempts число попыток сохранения при конфликте версий
const DefaultMaxAttempts = 3

// Результаты создания записей выручки для метрик
const (
	RevenueCreated   = "created"
	RevenueDuplicate = "duplicate"
	RevenueFailed    = "failed"
)

// Request модель запроса на смену статуса
type Request struct {
	AppointmentID uuid.UUID `validate:"required"`
	UserID        int64     `validate:"gt=0"` // владелец салона
	Status        string    `validate:"required,oneof=Pending Approved In-Progress Completed Cancelled No-Show"`
	StaffNotes    *string   `validate:"omitempty,max=500"`
	SalonNotes    *string   `validate:"omitempty,max=500"`
}

// Response модель ответа после смены статуса
type Response struct {
	Appointment    *domain.Appointment
	From           domain.Status
	To             domain.Status
	Effects        []domain.SideEffect
	RevenueCreated int // сколько записей выручки создано этим вызовом
}

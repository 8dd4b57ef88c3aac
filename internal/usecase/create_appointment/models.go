package create_appointment

import "github.com/m04kA/SalonBookingService/internal/domain"

// Request модель запроса на создание записи
type Request struct {
	CustomerID      int64    `validate:"gt=0"`                   // ID клиента
	SalonID         int64    `validate:"gt=0"`                   // ID салона
	StaffID         *int64   `validate:"omitempty,gt=0"`         // ID мастера (опционально)
	ServiceIDs      []int64  `validate:"min=1,max=10,dive,gt=0"` // Услуги в порядке оказания
	AppointmentDate string   `validate:"required,apptdate"`      // Дата (YYYY-MM-DD или ISO)
	AppointmentTime string   `validate:"required,hhmm"`          // Время начала HH:MM
	FinalAmount     *float64 `validate:"omitempty,gte=0"`        // Сумма после скидки (по умолчанию равна полной)
	CustomerNotes   *string  `validate:"omitempty,max=500"`      // Пожелания клиента
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
}

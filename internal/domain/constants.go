package domain

import "time"

// Scheduling constants
const (
	SlotStepMinutes        = 30 // шаг сетки слотов
	SearchHorizonDays      = 7  // сколько дней вперед (включая сегодня) ищется свободный слот
	DefaultServiceDuration = 30 // ширина слота, если длительность услуги не указана
	CancellationWindow     = 2 * time.Hour
)

// Business validation constants
const (
	MaxServicesPerAppointment   = 10
	MaxDurationMinutes          = 720 // 12 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxFeedbackLength           = 1000
	MinRating                   = 1
	MaxRating                   = 5
)

// Time format constants
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	DateTimeFormat = "2006-01-02T15:04" // YYYY-MM-DDTHH:MM
)

// Cancellation initiators
const (
	CancelledByCustomer = "Customer"
	CancelledBySalon    = "Salon"
)

// BlockedTimeServiceName префикс названия строки услуги для блокировки времени мастера
const BlockedTimeServiceName = "Blocked Time"

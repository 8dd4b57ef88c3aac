package find_next_availability

import (
	"context"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetBySalonWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// CalendarRepository интерфейс репозитория календарей салонов
type CalendarRepository interface {
	GetCalendar(ctx context.Context, salonID int64) (*domain.SalonCalendar, error)
}

// Metrics интерфейс метрик поиска
type Metrics interface {
	ObserveAvailabilitySearch(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

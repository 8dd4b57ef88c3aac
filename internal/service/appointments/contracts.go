package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.Status) ([]*domain.Appointment, error)
	GetBySalonWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) error
	CountByStatus(ctx context.Context, salonID int64) (map[domain.Status]int, error)
}

// CalendarRepository интерфейс репозитория календарей салонов
type CalendarRepository interface {
	GetCalendar(ctx context.Context, salonID int64) (*domain.SalonCalendar, error)
}

// Metrics интерфейс метрик
type Metrics interface {
	ObserveStatusTransition(from, to string)
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

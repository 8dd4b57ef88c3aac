package update_status

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	// Update сохраняет запись, если версия не изменилась с момента чтения
	Update(ctx context.Context, a *domain.Appointment) error
}

// RevenueRepository интерфейс репозитория выручки
type RevenueRepository interface {
	// Create возвращает false, если запись для этой строки уже существует
	Create(ctx context.Context, record *domain.RevenueRecord) (bool, error)
}

// CalendarRepository интерфейс репозитория календарей салонов
type CalendarRepository interface {
	GetCalendar(ctx context.Context, salonID int64) (*domain.SalonCalendar, error)
}

// Metrics интерфейс метрик переходов статуса
type Metrics interface {
	ObserveStatusTransition(from, to string)
	ObserveRevenueRecord(result string)
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

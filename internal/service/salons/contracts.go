package salons

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// CalendarRepository интерфейс репозитория календарей салонов
type CalendarRepository interface {
	GetCalendar(ctx context.Context, salonID int64) (*domain.SalonCalendar, error)
	UpsertCalendar(ctx context.Context, calendar *domain.SalonCalendar) (*domain.SalonCalendar, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

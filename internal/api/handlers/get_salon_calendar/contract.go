package get_salon_calendar

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/service/salons/models"
)

type SalonService interface {
	GetCalendar(ctx context.Context, salonID int64) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

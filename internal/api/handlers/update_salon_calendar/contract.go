package update_salon_calendar

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/service/salons/models"
)

type SalonService interface {
	UpdateCalendar(ctx context.Context, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

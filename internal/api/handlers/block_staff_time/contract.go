package block_staff_time

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	BlockStaffTime(ctx context.Context, req *models.BlockStaffTimeRequest) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

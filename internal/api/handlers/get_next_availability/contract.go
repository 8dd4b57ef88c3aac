package get_next_availability

import (
	"context"

	findNextAvailability "github.com/m04kA/SalonBookingService/internal/usecase/find_next_availability"
)

type FindNextAvailabilityUseCase interface {
	Execute(ctx context.Context, req *findNextAvailability.Request) (*findNextAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

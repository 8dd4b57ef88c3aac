package get_next_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	findNextAvailability "github.com/m04kA/SalonBookingService/internal/usecase/find_next_availability"
)

const (
	msgInvalidSalonID  = "некорректный ID салона"
	msgInvalidDuration = "некорректная длительность услуги"
	msgSalonNotFound   = "салон не найден"
)

type Handler struct {
	useCase FindNextAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase FindNextAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/next-availability
// Query params: duration (минуты, опционально)
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/next-availability - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	req := &findNextAvailability.Request{SalonID: salonID}
	if raw := r.URL.Query().Get("duration"); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		req.DurationMinutes = duration
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, findNextAvailability.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/next-availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, findNextAvailability.ErrSalonNotFound):
			h.logger.Warn("GET /salons/{id}/next-availability - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		default:
			h.logger.Error("GET /salons/{id}/next-availability - Failed to search: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(salonID, result))
}

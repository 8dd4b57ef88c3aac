package get_salon_calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/service/salons"
)

const (
	msgInvalidSalonID = "некорректный ID салона"
	msgNotFound       = "календарь салона не найден"
)

type Handler struct {
	service SalonService
	logger  Logger
}

func NewHandler(service SalonService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/calendar
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/calendar - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	calendar, err := h.service.GetCalendar(r.Context(), salonID)
	if err != nil {
		if errors.Is(err, salons.ErrCalendarNotFound) {
			h.logger.Warn("GET /salons/{id}/calendar - Calendar not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /salons/{id}/calendar - Failed to get calendar: salon_id=%d, error=%v", salonID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, calendar)
}

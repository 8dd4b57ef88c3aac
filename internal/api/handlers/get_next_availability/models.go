package get_next_availability

import (
	findNextAvailability "github.com/m04kA/SalonBookingService/internal/usecase/find_next_availability"
)

// NextAvailabilityResponse HTTP response model.
// Если свободного времени нет, date/time/day не заполняются.
type NextAvailabilityResponse struct {
	SalonID   int64  `json:"salonId"`
	Available bool   `json:"available"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Day       string `json:"day,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(salonID int64, resp *findNextAvailability.Response) *NextAvailabilityResponse {
	out := &NextAvailabilityResponse{
		SalonID:   salonID,
		Available: resp.Found,
	}
	if resp.Found {
		out.Date = resp.Date
		out.Time = resp.Time.String()
		out.Day = resp.DayLabel
	}
	return out
}

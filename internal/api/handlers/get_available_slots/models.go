package get_available_slots

import (
	"fmt"
	"strconv"

	getAvailableSlots "github.com/m04kA/SalonBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	SalonID      int64           `json:"salonId"`
	Date         string          `json:"date"`
	IsWorkingDay bool            `json:"isWorkingDay"`
	OpenTime     string          `json:"openTime"`
	CloseTime    string          `json:"closeTime"`
	Slots        []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		SalonID:      resp.SalonID,
		Date:         resp.Date,
		IsWorkingDay: resp.IsWorkingDay,
		OpenTime:     resp.OpenTime.String(),
		CloseTime:    resp.CloseTime.String(),
		Slots:        slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(salonID int64, date, durationStr, staffIDStr string) (*getAvailableSlots.Request, error) {
	duration, err := parseDuration(durationStr)
	if err != nil {
		return nil, err
	}
	staffID, err := parseStaffID(staffIDStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		SalonID:         salonID,
		Date:            date,
		DurationMinutes: duration,
		StaffID:         staffID,
	}, nil
}

// parseDuration пустая строка означает длительность по умолчанию
func parseDuration(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	d, err := strconv.Atoi(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// parseStaffID пустая строка означает все мастера салона
func parseStaffID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid staffId %q", s)
	}
	return &id, nil
}

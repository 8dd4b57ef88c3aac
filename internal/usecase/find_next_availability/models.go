package find_next_availability

import "github.com/m04kA/SalonBookingService/pkg/types"

// Результаты поиска для метрик
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
)

// Request модель запроса на поиск ближайшего свободного времени
type Request struct {
	SalonID         int64 `validate:"gt=0"`          // ID салона
	DurationMinutes int   `validate:"gte=0,max=720"` // Длительность услуги (0 - по умолчанию)
}

// Response результат поиска. Found=false означает, что за горизонт поиска
// свободного времени нет; это не ошибка.
type Response struct {
	Found    bool
	Date     string           // YYYY-MM-DD
	Time     types.TimeString // HH:MM
	DayLabel string           // Mon, Tue ...
}

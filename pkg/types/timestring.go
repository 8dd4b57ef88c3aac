package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

// ErrInvalidTime возвращается, когда строка не соответствует формату HH:MM
var ErrInvalidTime = errors.New("types: invalid time string format")

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// TimeString время суток в формате HH:MM (без даты и часового пояса)
type TimeString string

// NewTimeString создает TimeString из time.Time (берется локальное время значения)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString парсит и валидирует строку HH:MM
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(strings.TrimSpace(s))
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// TimeStringFromMinutes переводит минуты от полуночи в HH:MM.
// Значения за пределами суток сворачиваются по модулю 24 часов.
func TimeStringFromMinutes(minutes int) TimeString {
	m := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60))
}

// TimeToMinutes переводит HH:MM в минуты от полуночи.
// Пустая или некорректная строка дает 0, поэтому вызывающий код должен
// отдельно проверять наличие значения, а не считать 0 полуночью.
func TimeToMinutes(s string) int {
	m, err := TimeString(strings.TrimSpace(s)).Minutes()
	if err != nil {
		return 0
	}
	return m
}

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	if !timePattern.MatchString(string(t)) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, string(t))
	}
	return nil
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s := string(t)
	hours, _ := strconv.Atoi(s[:2])
	minutes, _ := strconv.Atoi(s[3:])
	return hours*60 + minutes, nil
}

// AddMinutes прибавляет минуты с переходом через границу суток по модулю.
// Календарная дата при этом не меняется.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return TimeStringFromMinutes(m + minutes), nil
}

// IsBefore строго раньше other (оба значения должны быть валидны)
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter строго позже other (оба значения должны быть валидны)
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// Scan реализует sql.Scanner
func (t *TimeString) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = ""
	case string:
		*t = fromDBString(v)
	case []byte:
		*t = fromDBString(string(v))
	case time.Time:
		*t = NewTimeString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTime, value)
	}
	return nil
}

// Value реализует driver.Valuer, пустое время пишется как NULL
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// fromDBString отрезает секунды у значений вида HH:MM:SS
func fromDBString(s string) TimeString {
	s = strings.TrimSpace(s)
	if len(s) == len("15:04:05") {
		s = s[:5]
	}
	return TimeString(s)
}

package types

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// CanonicalDateTimeLayout формат даты записи: YYYY-MM-DDTHH:mm
	CanonicalDateTimeLayout = "2006-01-02T15:04"
	// DateLayout формат календарной даты: YYYY-MM-DD
	DateLayout = "2006-01-02"
)

// ErrInvalidDate возвращается, когда значение нельзя привести к каноническому формату
var ErrInvalidDate = errors.New("types: invalid appointment date")

var canonicalPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)

// Форматы входных строк в порядке проверки. Суффикс часового пояса
// отбрасывается заранее: время хранится как локальное "настенное".
var inputLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	CanonicalDateTimeLayout,
	DateLayout,
}

// IsCanonicalDateTime проверяет строку на соответствие YYYY-MM-DDTHH:mm
func IsCanonicalDateTime(s string) bool {
	if !canonicalPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(CanonicalDateTimeLayout, s)
	return err == nil
}

// NormalizeDateTime приводит дату записи к виду YYYY-MM-DDTHH:mm.
//
// Принимает time.Time, *time.Time, строку только с датой (время 00:00),
// ISO-строку с секундами/долями секунд/зоной или уже каноническую строку.
// Нераспознанный ввод возвращает ErrInvalidDate.
func NormalizeDateTime(input interface{}) (string, error) {
	switch v := input.(type) {
	case time.Time:
		if v.IsZero() {
			return "", fmt.Errorf("%w: zero time", ErrInvalidDate)
		}
		return v.Format(CanonicalDateTimeLayout), nil
	case *time.Time:
		if v == nil {
			return "", fmt.Errorf("%w: nil time", ErrInvalidDate)
		}
		return NormalizeDateTime(*v)
	case string:
		return normalizeString(v)
	case nil:
		return "", fmt.Errorf("%w: empty value", ErrInvalidDate)
	default:
		return "", fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, input)
	}
}

// ParseDateTime разбирает каноническую строку в указанной локации
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(CanonicalDateTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DatePart возвращает YYYY-MM-DD из канонической строки
func DatePart(s string) string {
	if len(s) < len(DateLayout) {
		return s
	}
	return s[:len(DateLayout)]
}

// CombineDateAndTime собирает каноническую строку из даты и времени суток
func CombineDateAndTime(dateTime string, t TimeString) (string, error) {
	normalized, err := NormalizeDateTime(dateTime)
	if err != nil {
		return "", err
	}
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return DatePart(normalized) + "T" + t.String(), nil
}

func normalizeString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidDate)
	}

	if canonicalPattern.MatchString(s) {
		if !IsCanonicalDateTime(s) {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return s, nil
	}

	local := stripZone(s)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, local); err == nil {
			return t.Format(CanonicalDateTimeLayout), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// stripZone убирает "Z" или смещение вида +03:00 после времени
func stripZone(s string) string {
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		return s[:len(s)-1]
	}
	// дефисы даты стоят на позициях 4 и 7, смещение может быть только после времени
	if idx := strings.LastIndexAny(s, "+-"); idx > len(DateLayout) {
		return s[:idx]
	}
	return s
}

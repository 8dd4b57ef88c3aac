package domain

import "errors"

var (
	// ErrInvalidAppointment нарушен инвариант записи
	ErrInvalidAppointment = errors.New("domain: invalid appointment")
	// ErrInvalidStatus неизвестный статус
	ErrInvalidStatus = errors.New("domain: invalid status")
	// ErrInvalidTransition переход между статусами запрещен
	ErrInvalidTransition = errors.New("domain: status transition is not allowed")
	// ErrInvalidCalendar некорректный календарь салона
	ErrInvalidCalendar = errors.New("domain: invalid salon calendar")
)

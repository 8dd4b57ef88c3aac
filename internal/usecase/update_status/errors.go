package update_status

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("update_status: appointment not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец салона
	ErrAccessDenied = errors.New("update_status: access denied")

	// ErrInvalidTransition возвращается, когда переход запрещен таблицей переходов
	ErrInvalidTransition = errors.New("update_status: transition is not allowed")

	// ErrVersionConflict возвращается, когда запись менялась параллельно и попытки исчерпаны
	ErrVersionConflict = errors.New("update_status: appointment was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_status: internal error")
)

package salons

import "errors"

var (
	// ErrCalendarNotFound возвращается, когда календарь салона не найден
	ErrCalendarNotFound = errors.New("salons service: calendar not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец салона
	ErrAccessDenied = errors.New("salons service: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("salons service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("salons service: internal error")
)

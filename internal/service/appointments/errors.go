package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments service: appointment not found")

	// ErrSalonNotFound возвращается, когда у салона нет календаря
	ErrSalonNotFound = errors.New("appointments service: salon not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("appointments service: access denied")

	// ErrCannotCancel возвращается, когда запись нельзя отменить
	ErrCannotCancel = errors.New("appointments service: appointment cannot be cancelled")

	// ErrCannotRate возвращается, когда запись не завершена или уже оценена
	ErrCannotRate = errors.New("appointments service: appointment cannot be rated")

	// ErrCannotUpdate возвращается, когда запись в конечном статусе или это блокировка мастера
	ErrCannotUpdate = errors.New("appointments service: appointment cannot be updated")

	// ErrConflict возвращается, когда запись изменилась параллельно
	ErrConflict = errors.New("appointments service: appointment was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments service: internal error")
)

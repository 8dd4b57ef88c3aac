package create_appointment

import "errors"

var (
	// ErrSalonNotFound возвращается, когда у салона нет календаря
	ErrSalonNotFound = errors.New("create_appointment: salon not found")

	// ErrServiceNotFound возвращается, когда услуги нет в каталоге салона
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("create_appointment: service is not active")

	// ErrInvalidDate возвращается, если дату нельзя привести к каноническому виду
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrDateInPast возвращается при попытке записаться на прошедшее время
	ErrDateInPast = errors.New("create_appointment: appointment time is in the past")

	// ErrSalonClosed возвращается, когда салон не работает в этот день недели
	ErrSalonClosed = errors.New("create_appointment: salon is closed on this day")

	// ErrOutsideBusinessHours возвращается, когда время начала вне часов работы
	ErrOutsideBusinessHours = errors.New("create_appointment: start time is outside business hours")

	// ErrSlotNotAvailable возвращается, когда время пересекается с другой записью
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

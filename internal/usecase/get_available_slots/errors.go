package get_available_slots

import "errors"

var (
	// ErrSalonNotFound возвращается, когда у салона нет календаря
	ErrSalonNotFound = errors.New("get_available_slots: salon not found")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)

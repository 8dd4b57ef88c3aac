package find_next_availability

import "errors"

var (
	// ErrSalonNotFound возвращается, когда у салона нет календаря
	ErrSalonNotFound = errors.New("find_next_availability: salon not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_next_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_next_availability: internal error")
)

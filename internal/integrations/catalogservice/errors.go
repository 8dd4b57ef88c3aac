package catalogservice

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуги нет в каталоге салона
	ErrServiceNotFound = errors.New("catalogservice client: service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")

	// ErrUnavailable возвращается, когда каталог недоступен (сеть, таймаут, 5xx)
	ErrUnavailable = errors.New("catalogservice client: service unavailable")
)

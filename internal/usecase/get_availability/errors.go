package get_availability

import "errors"

var (
	// ErrInvalidRange возвращается при некорректном диапазоне дат
	ErrInvalidRange = errors.New("get_availability: invalid date range")

	// ErrPackageNotFound возвращается, когда пакет не найден
	ErrPackageNotFound = errors.New("get_availability: package not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)

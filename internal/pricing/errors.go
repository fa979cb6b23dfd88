package pricing

import "errors"

var (
	// ErrInvalidRange возвращается, когда дата возврата раньше даты получения
	ErrInvalidRange = errors.New("pricing: return date is before pickup date")

	// ErrInvalidPrice возвращается при неположительной базовой цене
	ErrInvalidPrice = errors.New("pricing: base price must be positive")

	// ErrInvalidHoliday возвращается при некорректной дате праздника в конфигурации
	ErrInvalidHoliday = errors.New("pricing: invalid holiday date")
)

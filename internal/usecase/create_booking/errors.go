package create_booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных.
	// Конкретные поля перечислены в ValidationError.
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrPackageNotFound возвращается, когда пакет не найден
	ErrPackageNotFound = errors.New("create_booking: package not found")

	// ErrPackageInactive возвращается, когда пакет снят с бронирования
	ErrPackageInactive = errors.New("create_booking: package is not active")

	// ErrDatesUnavailable возвращается, когда на запрошенные даты
	// не осталось свободных мест. Отличим от ошибок валидации,
	// чтобы UI мог показать "даты заняты", а не ошибку формы.
	ErrDatesUnavailable = errors.New("create_booking: requested dates are not available")

	// ErrAdmissionContention возвращается, когда не удалось получить
	// блокировку admission за отведенное время. Операцию можно повторить.
	ErrAdmissionContention = errors.New("create_booking: admission contention, retry later")

	// ErrCodeGeneration возвращается, когда не удалось подобрать
	// уникальный код бронирования
	ErrCodeGeneration = errors.New("create_booking: failed to generate unique booking code")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// FieldError ошибка валидации одного поля
type FieldError struct {
	Field   string
	Message string
}

// ValidationError ошибка валидации запроса целиком: собирает все
// некорректные поля за один проход, а не только первое
type ValidationError struct {
	Fields []FieldError
}

// Error возвращает перечисление всех некорректных полей
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

// Unwrap позволяет errors.Is(err, ErrInvalidInput)
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

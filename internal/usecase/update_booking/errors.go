package update_booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных.
	// Конкретные поля перечислены в ValidationError.
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит
	// другому клиенту
	ErrAccessDenied = errors.New("update_booking: access denied")

	// ErrModificationNotAllowed возвращается, когда политика запрещает
	// редактирование (терминальный статус или близко к получению)
	ErrModificationNotAllowed = errors.New("update_booking: modification is not allowed")

	// ErrDatesUnavailable возвращается, когда на новые даты
	// не осталось свободных мест
	ErrDatesUnavailable = errors.New("update_booking: requested dates are not available")

	// ErrAdmissionContention возвращается, когда не удалось получить
	// блокировку admission за отведенное время. Операцию можно повторить.
	ErrAdmissionContention = errors.New("update_booking: admission contention, retry later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
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

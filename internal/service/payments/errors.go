package payments

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrPaymentNotFound возвращается, когда платёж не найден
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrAlreadyVerified возвращается при попытке заменить или повторно
	// проверить уже подтверждённый платёж
	ErrAlreadyVerified = errors.New("payment is already verified")

	// ErrPaymentPending возвращается при попытке приложить новый слип,
	// пока текущий ещё не проверен
	ErrPaymentPending = errors.New("payment is awaiting verification")

	// ErrInvalidTransition возвращается, когда статус бронирования
	// не допускает операцию с платежом
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

package payments

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	Supersede(ctx context.Context, id int64, slipRef string, amount float64) error
	SetOutcome(ctx context.Context, id int64, outcome domain.PaymentStatus, verifierID int64, notes *string) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс отправки уведомлений о событиях бронирования
type Notifier interface {
	BookingConfirmed(booking *domain.Booking)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

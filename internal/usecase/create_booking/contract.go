package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveInRange(ctx context.Context, packageID int64, from, to time.Time) ([]*domain.Booking, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

// PackageRepository интерфейс репозитория пакетов аренды
type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RentalPackage, error)
}

// Pricer интерфейс калькулятора стоимости аренды
type Pricer interface {
	ComputeBreakdown(basePrice float64, pickupDate, returnDate time.Time) (domain.PriceBreakdown, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс отправки уведомлений о событиях бронирования
type Notifier interface {
	BookingCreated(booking *domain.Booking)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC. Даты запросов парсятся в UTC,
// поэтому сравнения с «сейчас» ведутся в одной временной зоне.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

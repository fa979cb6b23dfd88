package update_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/policy"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetActiveInRange(ctx context.Context, packageID int64, from, to time.Time) ([]*domain.Booking, error)
	UpdateDetails(ctx context.Context, booking *domain.Booking) error
}

// PackageRepository интерфейс репозитория пакетов аренды
type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RentalPackage, error)
}

// Pricer интерфейс калькулятора стоимости аренды
type Pricer interface {
	ComputeBreakdown(basePrice float64, pickupDate, returnDate time.Time) (domain.PriceBreakdown, error)
}

// ModificationPolicy интерфейс политики редактирования бронирований
type ModificationPolicy interface {
	CanModify(b *domain.Booking, now time.Time) policy.Decision
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

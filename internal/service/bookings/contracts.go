package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/policy"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string, from domain.BookingStatus) error
}

// CancellationPolicy интерфейс политики отмены бронирований
type CancellationPolicy interface {
	CanCancel(b *domain.Booking, now time.Time) policy.Decision
	PenaltyRate(pickupAt, now time.Time) float64
}

// Notifier интерфейс отправки уведомлений о событиях бронирования
type Notifier interface {
	BookingCancelled(booking *domain.Booking, penaltyRate float64)
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

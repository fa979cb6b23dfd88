package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveInRange(ctx context.Context, packageID int64, from, to time.Time) ([]*domain.Booking, error)
}

// PackageRepository интерфейс репозитория пакетов аренды
type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RentalPackage, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

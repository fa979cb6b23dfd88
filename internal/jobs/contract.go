package jobs

import (
	"context"
	"time"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetPendingUnpaidBefore(ctx context.Context, deadline time.Time) ([]int64, error)
	CancelBatch(ctx context.Context, ids []int64, reason string) (int64, error)
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

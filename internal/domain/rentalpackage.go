package domain

import "time"

// RentalPackage represents a bookable equipment package.
// Создаётся и редактируется администратором; для движка бронирования read-only.
type RentalPackage struct {
	ID   int64
	Name string

	// BasePricePerDay базовая дневная цена, строго положительная
	BasePricePerDay float64

	// MaxConcurrentReservations максимум активных бронирований
	// на один календарный день
	MaxConcurrentReservations int

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Capacity возвращает действующий лимит одновременных бронирований
func (p *RentalPackage) Capacity() int {
	if p.MaxConcurrentReservations < MinConcurrentReservations {
		return DefaultMaxConcurrentReservations
	}
	return p.MaxConcurrentReservations
}

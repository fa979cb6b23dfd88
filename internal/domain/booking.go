package domain

import (
	"time"

	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// allowedTransitions таблица допустимых переходов статусов.
// Из терминальных статусов (cancelled, completed) переходов нет.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// Booking represents a rental package booking in the system
type Booking struct {
	ID         int64
	Code       string // Уникальный человекочитаемый код бронирования
	PackageID  int64
	CustomerID int64

	// Период аренды: диапазон дат включительно, ReturnDate >= PickupDate
	PickupDate time.Time
	ReturnDate time.Time
	PickupTime types.TimeString
	ReturnTime types.TimeString

	Location string
	Notes    *string
	Status   BookingStatus

	// Итоговая цена (subtotal + VAT) и её разбивка, зафиксированные при создании
	TotalPrice float64
	Breakdown  PriceBreakdown

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking counts against package capacity
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking is in a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeUpdated returns true if the booking dates/location/notes can be edited
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo returns true if the transition to target is allowed
// by the lifecycle table
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range allowedTransitions[b.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// RentalDays возвращает количество дней аренды: обе границы включительно
func (b *Booking) RentalDays() int {
	return RentalDaysBetween(b.PickupDate, b.ReturnDate)
}

// PickupAt комбинирует дату и время получения в один момент времени.
// Если время не задано, считается начало суток.
func (b *Booking) PickupAt() time.Time {
	if !b.PickupTime.IsZero() {
		if at, err := b.PickupTime.At(b.PickupDate); err == nil {
			return at
		}
	}
	return DateOnly(b.PickupDate)
}

// OverlapsDay returns true if day falls within [PickupDate, ReturnDate]
func (b *Booking) OverlapsDay(day time.Time) bool {
	d := DateOnly(day)
	return !d.Before(DateOnly(b.PickupDate)) && !d.After(DateOnly(b.ReturnDate))
}

// RentalDaysBetween возвращает количество календарных дней в диапазоне
// [pickup, ret] включительно
func RentalDaysBetween(pickup, ret time.Time) int {
	return int(DateOnly(ret).Sub(DateOnly(pickup))/(24*time.Hour)) + 1
}

// DateOnly обнуляет время, оставляя только дату
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ValidBookingStatus возвращает true, если строка является известным статусом
func ValidBookingStatus(s string) bool {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

package notify

import "github.com/m04kA/SMC-RentalService/internal/domain"

// Nop заглушка нотификатора для выключенных уведомлений
type Nop struct{}

// NewNop создает заглушку нотификатора
func NewNop() *Nop {
	return &Nop{}
}

// BookingCreated ничего не делает
func (n *Nop) BookingCreated(*domain.Booking) {}

// BookingConfirmed ничего не делает
func (n *Nop) BookingConfirmed(*domain.Booking) {}

// BookingCancelled ничего не делает
func (n *Nop) BookingCancelled(*domain.Booking, float64) {}

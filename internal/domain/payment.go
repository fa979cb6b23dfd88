package domain

import "time"

// PaymentStatus represents the status of a deposit payment
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

// Payment представляет депозитный платёж по бронированию.
// На бронирование одновременно существует не более одного платежа:
// после отклонения новый слип замещает старый в той же записи.
type Payment struct {
	ID        int64
	BookingID int64

	// Amount всегда равен доле депозита от total_price бронирования
	// на момент создания платежа
	Amount float64

	// SlipRef ссылка на загруженный слип банковского перевода.
	// Хранение файлов — внешняя подсистема, здесь только идентификатор.
	SlipRef *string

	Status     PaymentStatus
	VerifiedBy *int64
	VerifiedAt *time.Time
	Notes      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsVerified returns true if the payment has been verified
func (p *Payment) IsVerified() bool {
	return p.Status == PaymentVerified
}

// CanBeResubmitted returns true if a new slip may supersede this payment
func (p *Payment) CanBeResubmitted() bool {
	return p.Status == PaymentRejected
}

// ValidPaymentOutcome возвращает true для допустимого исхода проверки платежа
func ValidPaymentOutcome(s string) bool {
	switch PaymentStatus(s) {
	case PaymentVerified, PaymentRejected:
		return true
	default:
		return false
	}
}

package models

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Request модели

// SubmitSlipRequest запрос на прикрепление слипа депозитного платежа
type SubmitSlipRequest struct {
	CustomerID int64  `json:"customerId"`
	SlipRef    string `json:"slipRef"`
}

// ApplyOutcomeRequest запрос на проверку платежа (админ)
type ApplyOutcomeRequest struct {
	AdminID int64   `json:"adminId"`
	Outcome string  `json:"outcome"` // verified | rejected
	Notes   *string `json:"notes,omitempty"`
}

// Response модели

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID        int64   `json:"id"`
	BookingID int64   `json:"bookingId"`
	Amount    float64 `json:"amount"`
	SlipRef   *string `json:"slipRef,omitempty"`
	Status    string  `json:"status"`

	VerifiedBy *int64  `json:"verifiedBy,omitempty"`
	VerifiedAt *string `json:"verifiedAt,omitempty"` // ISO 8601 format
	Notes      *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ApplyOutcomeResponse результат проверки платежа
type ApplyOutcomeResponse struct {
	Payment       PaymentResponse `json:"payment"`
	BookingStatus string          `json:"bookingStatus"`
}

// Методы конвертации

// FromDomainPayment конвертирует domain модель в DTO
func FromDomainPayment(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}

	resp := &PaymentResponse{
		ID:         p.ID,
		BookingID:  p.BookingID,
		Amount:     p.Amount,
		SlipRef:    p.SlipRef,
		Status:     string(p.Status),
		VerifiedBy: p.VerifiedBy,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}

	if p.VerifiedAt != nil {
		verifiedAt := p.VerifiedAt.Format(time.RFC3339)
		resp.VerifiedAt = &verifiedAt
	}

	return resp
}

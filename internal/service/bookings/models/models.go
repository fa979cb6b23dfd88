package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CustomerID         int64  `json:"customerId"`
	IsAdmin            bool   `json:"-"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования (админ)
type UpdateStatusRequest struct {
	AdminID int64  `json:"adminId"`
	Status  string `json:"status"`
}

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// Response модели

// PriceBreakdownResponse разбивка цены бронирования
type PriceBreakdownResponse struct {
	RentalDays              int     `json:"rentalDays"`
	BaseDay                 float64 `json:"baseDay"`
	Day2Surcharge           float64 `json:"day2Surcharge"`
	Day36Surcharge          float64 `json:"day36Surcharge"`
	Day7PlusSurcharge       float64 `json:"day7PlusSurcharge"`
	WeekendHolidaySurcharge float64 `json:"weekendHolidaySurcharge"`
	Subtotal                float64 `json:"subtotal"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	CustomerID int64  `json:"customerId"`
	PackageID  int64  `json:"packageId"`

	PickupDate string `json:"pickupDate"` // "2025-10-15"
	ReturnDate string `json:"returnDate"`
	PickupTime string `json:"pickupTime"` // "10:00"
	ReturnTime string `json:"returnTime"`

	Location string  `json:"location"`
	Notes    *string `json:"notes,omitempty"`
	Status   string  `json:"status"`

	TotalPrice float64                `json:"totalPrice"`
	Breakdown  PriceBreakdownResponse `json:"breakdown"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CancelBookingResponse результат отмены: ставка штрафа, применённая
// согласно политике отмены
type CancelBookingResponse struct {
	BookingID   int64   `json:"bookingId"`
	Status      string  `json:"status"`
	PenaltyRate float64 `json:"penaltyRate"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:         b.ID,
		Code:       b.Code,
		CustomerID: b.CustomerID,
		PackageID:  b.PackageID,
		PickupDate: b.PickupDate.Format(domain.DateFormat),
		ReturnDate: b.ReturnDate.Format(domain.DateFormat),
		PickupTime: b.PickupTime.String(),
		ReturnTime: b.ReturnTime.String(),
		Location:   b.Location,
		Notes:      b.Notes,
		Status:     string(b.Status),
		TotalPrice: b.TotalPrice,
		Breakdown: PriceBreakdownResponse{
			RentalDays:              b.Breakdown.RentalDays,
			BaseDay:                 b.Breakdown.BaseDay,
			Day2Surcharge:           b.Breakdown.Day2Surcharge,
			Day36Surcharge:          b.Breakdown.Day36Surcharge,
			Day7PlusSurcharge:       b.Breakdown.Day7PlusSurcharge,
			WeekendHolidaySurcharge: b.Breakdown.WeekendHolidaySurcharge,
			Subtotal:                b.Breakdown.Subtotal,
		},
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	if !domain.ValidBookingStatus(status) {
		return "", ErrInvalidStatus
	}
	return domain.BookingStatus(status), nil
}

package update_booking

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Request модель запроса на редактирование бронирования. Передаются
// все редактируемые поля целиком, бронирование проходит повторный
// admission на новые даты.
type Request struct {
	BookingID  int64
	CustomerID int64 // ID клиента (из контекста аутентификации)

	PickupDate time.Time
	ReturnDate time.Time
	PickupTime types.TimeString
	ReturnTime types.TimeString
	Location   string
	Notes      *string
}

// Response модель ответа с обновленным бронированием
type Response struct {
	ID         int64
	Code       string
	CustomerID int64
	PackageID  int64
	PickupDate time.Time
	ReturnDate time.Time
	PickupTime types.TimeString
	ReturnTime types.TimeString
	Location   string
	Notes      *string
	Status     string

	Breakdown  domain.PriceBreakdown // Разбивка цены без VAT
	TotalPrice float64               // Итог с VAT после перерасчета

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:         b.ID,
		Code:       b.Code,
		CustomerID: b.CustomerID,
		PackageID:  b.PackageID,
		PickupDate: b.PickupDate,
		ReturnDate: b.ReturnDate,
		PickupTime: b.PickupTime,
		ReturnTime: b.ReturnTime,
		Location:   b.Location,
		Notes:      b.Notes,
		Status:     string(b.Status),
		Breakdown:  b.Breakdown,
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

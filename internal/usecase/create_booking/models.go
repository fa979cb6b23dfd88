package create_booking

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64            // ID клиента (из контекста аутентификации)
	PackageID  int64            // ID пакета аренды
	PickupDate time.Time        // Дата получения (без времени)
	ReturnDate time.Time        // Дата возврата, включительно
	PickupTime types.TimeString // Время получения "HH:MM"
	ReturnTime types.TimeString // Время возврата "HH:MM"
	Location   string           // Место получения
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
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
	TotalPrice float64               // Итог с VAT
	DepositDue float64               // Требуемый депозит

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toResponse(b *domain.Booking, depositDue float64) *Response {
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
		DepositDue: depositDue,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

package cancel_booking

import (
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(customerID int64, isAdmin bool) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		CustomerID:         customerID,
		IsAdmin:            isAdmin,
		CancellationReason: r.CancellationReason,
	}
}

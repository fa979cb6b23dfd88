package get_payment

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/service/payments/models"
)

type PaymentService interface {
	GetByBooking(ctx context.Context, bookingID int64, customerID int64, isAdmin bool) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package verify_payment

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/service/payments/models"
)

type PaymentService interface {
	ApplyOutcome(ctx context.Context, bookingID int64, req *models.ApplyOutcomeRequest) (*models.ApplyOutcomeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

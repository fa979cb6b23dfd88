package submit_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/service/payments"
	"github.com/m04kA/SMC-RentalService/internal/service/payments/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBookingNotFound    = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgAlreadyVerified    = "депозит уже подтвержден"
	msgPaymentPending     = "предыдущий слип ещё не проверен"
	msgNotAwaitingPayment = "бронирование не ожидает оплату"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// SubmitSlipRequest HTTP request model
type SubmitSlipRequest struct {
	SlipRef string `json:"slipRef"`
}

// Handle POST /api/v1/bookings/{bookingId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SubmitSlipRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SubmitSlip(r.Context(), bookingID, &models.SubmitSlipRequest{
		CustomerID: customerID,
		SlipRef:    req.SlipRef,
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment - Access denied: booking_id=%d, customer_id=%d",
				bookingID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, payments.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/payment - Invalid input: booking_id=%d, %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, payments.ErrAlreadyVerified):
			h.logger.Warn("POST /bookings/{id}/payment - Already verified: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyVerified)

		case errors.Is(err, payments.ErrPaymentPending):
			h.logger.Warn("POST /bookings/{id}/payment - Payment pending: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgPaymentPending)

		case errors.Is(err, payments.ErrInvalidTransition):
			h.logger.Warn("POST /bookings/{id}/payment - Booking not awaiting payment: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgNotAwaitingPayment)

		default:
			h.logger.Error("POST /bookings/{id}/payment - Failed to submit slip: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment - Slip submitted successfully: booking_id=%d, payment_id=%d",
		bookingID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

package verify_payment

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
	msgPaymentNotFound    = "платёж не найден"
	msgAlreadyVerified    = "депозит уже подтвержден"
	msgInvalidTransition  = "недопустимый переход статуса бронирования"
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

// ApplyOutcomeRequest HTTP request model
type ApplyOutcomeRequest struct {
	Outcome string  `json:"outcome"` // verified | rejected
	Notes   *string `json:"notes,omitempty"`
}

// Handle PATCH /api/v1/bookings/{bookingId}/payment/verify
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/payment/verify - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/payment/verify - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ApplyOutcomeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/payment/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ApplyOutcome(r.Context(), bookingID, &models.ApplyOutcomeRequest{
		AdminID: adminID,
		Outcome: req.Outcome,
		Notes:   req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/payment/verify - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, payments.ErrPaymentNotFound):
			h.logger.Warn("PATCH /bookings/{id}/payment/verify - Payment not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgPaymentNotFound)

		case errors.Is(err, payments.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/payment/verify - Invalid input: booking_id=%d, %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, payments.ErrAlreadyVerified):
			h.logger.Warn("PATCH /bookings/{id}/payment/verify - Already verified: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyVerified)

		case errors.Is(err, payments.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/payment/verify - Invalid transition: booking_id=%d, %v", bookingID, err)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /bookings/{id}/payment/verify - Failed to apply outcome: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/payment/verify - Outcome applied: booking_id=%d, outcome=%s, booking_status=%s",
		bookingID, req.Outcome, result.BookingStatus)
	handlers.RespondJSON(w, http.StatusOK, result)
}

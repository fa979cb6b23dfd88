package update_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	updateBooking "github.com/m04kA/SMC-RentalService/internal/usecase/update_booking"
)

const (
	msgInvalidBookingID    = "некорректный ID бронирования"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgValidationFailed    = "некорректные данные бронирования"
	msgNotFound            = "бронирование не найдено"
	msgForbidden           = "доступ запрещен"
	msgModificationDenied  = "бронирование нельзя изменить"
	msgDatesUnavailable    = "выбранные даты недоступны"
	msgAdmissionContention = "не удалось обработать запрос, повторите попытку"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, customerID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var validationErr *updateBooking.ValidationError

		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("PATCH /bookings/{id} - Validation failed: booking_id=%d, %v", bookingID, err)
			handlers.RespondValidationError(w, msgValidationFailed, fieldMap(validationErr))

		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id} - Access denied: booking_id=%d, customer_id=%d", bookingID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateBooking.ErrModificationNotAllowed):
			h.logger.Warn("PATCH /bookings/{id} - Modification denied: booking_id=%d, %v", bookingID, err)
			handlers.RespondError(w, http.StatusConflict, msgModificationDenied)

		case errors.Is(err, updateBooking.ErrDatesUnavailable):
			h.logger.Warn("PATCH /bookings/{id} - Dates unavailable: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgDatesUnavailable)

		case errors.Is(err, updateBooking.ErrAdmissionContention):
			h.logger.Warn("PATCH /bookings/{id} - Admission contention: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgAdmissionContention)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to update booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking updated successfully: booking_id=%d, customer_id=%d",
		bookingID, customerID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func fieldMap(err *updateBooking.ValidationError) map[string]string {
	fields := make(map[string]string, len(err.Fields))
	for _, f := range err.Fields {
		fields[f.Field] = f.Message
	}
	return fields
}

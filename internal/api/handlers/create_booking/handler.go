package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-RentalService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgValidationFailed    = "некорректные данные бронирования"
	msgPackageNotFound     = "пакет аренды не найден"
	msgPackageInactive     = "пакет аренды недоступен для бронирования"
	msgDatesUnavailable    = "выбранные даты недоступны"
	msgAdmissionContention = "не удалось обработать запрос, повторите попытку"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var validationErr *createBooking.ValidationError

		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("POST /bookings - Validation failed: customer_id=%d, %v", customerID, err)
			handlers.RespondValidationError(w, msgValidationFailed, fieldMap(validationErr))

		case errors.Is(err, createBooking.ErrPackageNotFound):
			h.logger.Warn("POST /bookings - Package not found: package_id=%d", req.PackageID)
			handlers.RespondNotFound(w, msgPackageNotFound)

		case errors.Is(err, createBooking.ErrPackageInactive):
			h.logger.Warn("POST /bookings - Package inactive: package_id=%d", req.PackageID)
			handlers.RespondError(w, http.StatusConflict, msgPackageInactive)

		case errors.Is(err, createBooking.ErrDatesUnavailable):
			h.logger.Warn("POST /bookings - Dates unavailable: customer_id=%d, package_id=%d", customerID, req.PackageID)
			handlers.RespondError(w, http.StatusConflict, msgDatesUnavailable)

		case errors.Is(err, createBooking.ErrAdmissionContention):
			h.logger.Warn("POST /bookings - Admission contention: customer_id=%d, package_id=%d", customerID, req.PackageID)
			handlers.RespondError(w, http.StatusConflict, msgAdmissionContention)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, package_id=%d, error=%v",
				customerID, req.PackageID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, code=%s, customer_id=%d",
		result.ID, result.Code, customerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func fieldMap(err *createBooking.ValidationError) map[string]string {
	fields := make(map[string]string, len(err.Fields))
	for _, f := range err.Fields {
		fields[f.Field] = f.Message
	}
	return fields
}

package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	getAvailability "github.com/m04kA/SMC-RentalService/internal/usecase/get_availability"
)

const (
	msgInvalidPackageID = "некорректный ID пакета"
	msgInvalidDateRange = "некорректный диапазон дат, ожидается from и to в формате YYYY-MM-DD"
	msgPackageNotFound  = "пакет аренды не найден"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/packages/{packageId}/availability?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	packageID, err := strconv.ParseInt(vars["packageId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /packages/{id}/availability - Invalid package ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPackageID)
		return
	}

	from, err := time.Parse(domain.DateFormat, r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /packages/{id}/availability - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}
	to, err := time.Parse(domain.DateFormat, r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /packages/{id}/availability - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		PackageID: packageID,
		From:      from,
		To:        to,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidRange):
			h.logger.Warn("GET /packages/{id}/availability - Invalid range: package_id=%d, %v", packageID, err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, getAvailability.ErrPackageNotFound):
			h.logger.Warn("GET /packages/{id}/availability - Package not found: package_id=%d", packageID)
			handlers.RespondNotFound(w, msgPackageNotFound)

		default:
			h.logger.Error("GET /packages/{id}/availability - Failed: package_id=%d, error=%v", packageID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /packages/{id}/availability - Availability retrieved: package_id=%d, days=%d",
		packageID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

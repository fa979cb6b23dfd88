package list_packages

import (
	"net/http"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
)

type Handler struct {
	packageRepo PackageRepository
	logger      Logger
}

func NewHandler(packageRepo PackageRepository, logger Logger) *Handler {
	return &Handler{
		packageRepo: packageRepo,
		logger:      logger,
	}
}

// PackageResponse HTTP response model
type PackageResponse struct {
	ID                        int64   `json:"id"`
	Name                      string  `json:"name"`
	BasePricePerDay           float64 `json:"basePricePerDay"`
	MaxConcurrentReservations int     `json:"maxConcurrentReservations"`
}

// PackageListResponse ответ со списком пакетов
type PackageListResponse struct {
	Packages []PackageResponse `json:"packages"`
}

// Handle GET /api/v1/packages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	packages, err := h.packageRepo.ListActive(r.Context())
	if err != nil {
		h.logger.Error("GET /packages - Failed to list packages: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := PackageListResponse{Packages: make([]PackageResponse, 0, len(packages))}
	for _, p := range packages {
		resp.Packages = append(resp.Packages, fromDomain(p))
	}

	h.logger.Info("GET /packages - Retrieved %d active packages", len(resp.Packages))
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func fromDomain(p *domain.RentalPackage) PackageResponse {
	return PackageResponse{
		ID:                        p.ID,
		Name:                      p.Name,
		BasePricePerDay:           p.BasePricePerDay,
		MaxConcurrentReservations: p.Capacity(),
	}
}

package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	packageRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/rentalpackage"
)

// UseCase use case запроса занятости пакета. Чтение без блокировок:
// ответ носит информационный характер, окончательная проверка
// выполняется при создании бронирования.
type UseCase struct {
	bookingRepo BookingRepository
	packageRepo PackageRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, packageRepo PackageRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		packageRepo: packageRepo,
		logger:      logger,
	}
}

// Execute выполняет use case запроса занятости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed for package id=%d: %v", req.PackageID, err)
		return nil, err
	}

	pkg, err := uc.packageRepo.GetByID(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, packageRepo.ErrPackageNotFound) {
			uc.logger.Warn("GetAvailability: package id=%d not found", req.PackageID)
			return nil, ErrPackageNotFound
		}
		uc.logger.Error("GetAvailability: failed to get package id=%d: %v", req.PackageID, err)
		return nil, fmt.Errorf("%w: failed to get package: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetActiveInRange(ctx, req.PackageID, req.From, req.To)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings for package id=%d: %v", req.PackageID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	capacity := pkg.Capacity()
	days := make([]DayAvailability, 0, domain.RentalDaysBetween(req.From, req.To))
	available := pkg.IsActive

	for d := domain.DateOnly(req.From); !d.After(domain.DateOnly(req.To)); d = d.AddDate(0, 0, 1) {
		used := 0
		for _, b := range bookings {
			if b.IsActive() && b.OverlapsDay(d) {
				used++
			}
		}

		remaining := capacity - used
		if remaining <= 0 {
			remaining = 0
			available = false
		}

		days = append(days, DayAvailability{
			Date:      d.Format(domain.DateFormat),
			Used:      used,
			Remaining: remaining,
		})
	}

	uc.logger.Info("GetAvailability: package id=%d, days=%d, available=%t", req.PackageID, len(days), available)

	return &Response{
		PackageID:     req.PackageID,
		PackageActive: pkg.IsActive,
		Capacity:      capacity,
		Days:          days,
		Available:     available,
	}, nil
}

func validateRequest(req *Request) error {
	if req.PackageID <= 0 {
		return fmt.Errorf("%w: packageId must be positive", ErrInvalidRange)
	}
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidRange)
	}
	if domain.DateOnly(req.To).Before(domain.DateOnly(req.From)) {
		return fmt.Errorf("%w: to must not be before from", ErrInvalidRange)
	}
	if domain.RentalDaysBetween(req.From, req.To) > domain.MaxRentalDays {
		return fmt.Errorf("%w: range is too long", ErrInvalidRange)
	}
	return nil
}

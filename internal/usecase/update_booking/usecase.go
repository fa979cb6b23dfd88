package update_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RentalService/internal/pricing"
	"github.com/m04kA/SMC-RentalService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
)

// UseCase use case редактирования бронирования. Новые даты проходят
// повторный admission в той же сериализуемой транзакции, что и запись:
// собственное бронирование исключается из подсчета занятости, чтобы
// перенос внутри своего же диапазона не блокировал сам себя.
type UseCase struct {
	bookingRepo  BookingRepository
	packageRepo  PackageRepository
	pricer       Pricer
	policy       ModificationPolicy
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
	vatRate      float64

	admissionTimeout time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	packageRepo PackageRepository,
	pricer Pricer,
	policy ModificationPolicy,
	txManager TransactionManager,
	logger Logger,
	vatRate float64,
	admissionTimeout time.Duration,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		packageRepo:      packageRepo,
		pricer:           pricer,
		policy:           policy,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		vatRate:          vatRate,
		admissionTimeout: admissionTimeout,
	}
}

// Execute выполняет use case редактирования бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: booking=%d, customer=%d", req.BookingID, req.CustomerID)

	now := uc.timeProvider.Now()

	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	txCtx, cancel := context.WithTimeout(ctx, uc.admissionTimeout)
	defer cancel()

	err := uc.txManager.DoSerializable(txCtx, func(txCtx context.Context) error {
		// 1. Читаем бронирование под блокировкой и проверяем права
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		if booking.CustomerID != req.CustomerID {
			return ErrAccessDenied
		}

		// 2. Политика: терминальный статус или слишком близко к получению
		if decision := uc.policy.CanModify(booking, now); !decision.Allowed {
			uc.logger.Warn("UpdateBooking: booking id=%d modification denied: %s", booking.ID, decision.Reason)
			return fmt.Errorf("%w: %s", ErrModificationNotAllowed, decision.Reason)
		}

		// 3. Перерасчет цены по текущим тарифам пакета
		pkg, err := uc.packageRepo.GetByID(txCtx, booking.PackageID)
		if err != nil {
			return fmt.Errorf("%w: failed to get package: %v", ErrInternal, err)
		}

		breakdown, err := uc.pricer.ComputeBreakdown(pkg.BasePricePerDay, req.PickupDate, req.ReturnDate)
		if err != nil {
			return fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
		}

		// 4. Повторный admission без учета собственного бронирования
		overlapping, err := uc.bookingRepo.GetActiveInRange(txCtx, booking.PackageID, req.PickupDate, req.ReturnDate)
		if err != nil {
			return fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
		}

		if day := firstFullDayExcluding(req.PickupDate, req.ReturnDate, overlapping, booking.ID, pkg.Capacity()); day != "" {
			uc.logger.Warn("UpdateBooking: booking id=%d, package id=%d has no capacity on %s",
				booking.ID, booking.PackageID, day)
			return ErrDatesUnavailable
		}

		// 5. Пишем новые детали и цену одним апдейтом
		booking.PickupDate = req.PickupDate
		booking.ReturnDate = req.ReturnDate
		booking.PickupTime = req.PickupTime
		booking.ReturnTime = req.ReturnTime
		booking.Location = req.Location
		booking.Notes = req.Notes
		booking.Breakdown = breakdown
		booking.TotalPrice = pricing.TotalWithVAT(breakdown.Subtotal, uc.vatRate)

		if err := uc.bookingRepo.UpdateDetails(txCtx, booking); err != nil {
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})

	if err != nil {
		if isContention(err) {
			uc.logger.Warn("UpdateBooking: admission contention for booking id=%d: %v", req.BookingID, err)
			return nil, ErrAdmissionContention
		}
		return nil, err
	}

	uc.logger.Info("UpdateBooking: successfully updated booking id=%d, new total=%.2f", result.ID, result.TotalPrice)

	return toResponse(result), nil
}

// firstFullDayExcluding возвращает первый день диапазона без свободных
// мест, не считая переносимое бронирование, или пустую строку
func firstFullDayExcluding(from, to time.Time, bookings []*domain.Booking, excludeID int64, capacity int) string {
	for d := domain.DateOnly(from); !d.After(domain.DateOnly(to)); d = d.AddDate(0, 0, 1) {
		used := 0
		for _, b := range bookings {
			if b.ID != excludeID && b.IsActive() && b.OverlapsDay(d) {
				used++
			}
		}
		if used >= capacity {
			return d.Format(domain.DateFormat)
		}
	}
	return ""
}

func isContention(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return errors.Is(err, txmanager.ErrRetriesExhausted) || errors.Is(err, simpletxmanager.ErrRetriesExhausted)
}

package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	packageRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/rentalpackage"
	"github.com/m04kA/SMC-RentalService/internal/pricing"
	"github.com/m04kA/SMC-RentalService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
)

// UseCase use case создания бронирования (admission-контроль).
// Проверка занятости и вставка выполняются в одной сериализуемой
// транзакции, чтобы две одновременные заявки не получили последнее место.
type UseCase struct {
	bookingRepo    BookingRepository
	packageRepo    PackageRepository
	pricer         Pricer
	txManager      TransactionManager
	notifier       Notifier
	timeProvider   TimeProvider
	logger         Logger
	vatRate        float64
	depositPercent float64

	// admissionTimeout ограничивает ожидание сериализуемой транзакции,
	// чтобы запрос не висел на блокировке неограниченно
	admissionTimeout time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	packageRepo PackageRepository,
	pricer Pricer,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
	vatRate float64,
	depositPercent float64,
	admissionTimeout time.Duration,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		packageRepo:      packageRepo,
		pricer:           pricer,
		txManager:        txManager,
		notifier:         notifier,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		vatRate:          vatRate,
		depositPercent:   depositPercent,
		admissionTimeout: admissionTimeout,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, package=%d, pickup=%s, return=%s",
		req.CustomerID, req.PackageID,
		req.PickupDate.Format(domain.DateFormat), req.ReturnDate.Format(domain.DateFormat))

	now := uc.timeProvider.Now()

	// 1. Валидация формы запроса — до каких-либо блокировок
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем пакет
	pkg, err := uc.packageRepo.GetByID(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, packageRepo.ErrPackageNotFound) {
			uc.logger.Warn("CreateBooking: package id=%d not found", req.PackageID)
			return nil, ErrPackageNotFound
		}
		uc.logger.Error("CreateBooking: failed to get package id=%d: %v", req.PackageID, err)
		return nil, fmt.Errorf("%w: failed to get package: %v", ErrInternal, err)
	}
	if !pkg.IsActive {
		uc.logger.Warn("CreateBooking: package id=%d is not active", req.PackageID)
		return nil, ErrPackageInactive
	}

	// 3. Считаем цену: калькулятор чистый, под блокировкой его держать незачем
	breakdown, err := uc.pricer.ComputeBreakdown(pkg.BasePricePerDay, req.PickupDate, req.ReturnDate)
	if err != nil {
		uc.logger.Error("CreateBooking: pricing failed for package id=%d: %v", req.PackageID, err)
		return nil, fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
	}
	totalPrice := pricing.TotalWithVAT(breakdown.Subtotal, uc.vatRate)

	var result *domain.Booking

	// 4. Проверка занятости и вставка — атомарно, с ограничением по времени
	txCtx, cancel := context.WithTimeout(ctx, uc.admissionTimeout)
	defer cancel()

	err = uc.txManager.DoSerializable(txCtx, func(txCtx context.Context) error {
		// 4.1. Перечитываем пересекающиеся активные бронирования под блокировкой
		overlapping, err := uc.bookingRepo.GetActiveInRange(txCtx, req.PackageID, req.PickupDate, req.ReturnDate)
		if err != nil {
			return fmt.Errorf("%w: failed to get overlapping bookings: %v", ErrInternal, err)
		}

		// 4.2. Занятость считается до добавления кандидата:
		// день занят, только если usage уже достиг capacity
		usage := usagePerDay(req.PickupDate, req.ReturnDate, overlapping)
		if day := firstFullDay(usage, req.PickupDate, req.ReturnDate, pkg.Capacity()); day != "" {
			uc.logger.Warn("CreateBooking: package id=%d has no capacity on %s (%d/%d)",
				req.PackageID, day, usage[day], pkg.Capacity())
			return ErrDatesUnavailable
		}

		// 4.3. Подбираем уникальный код и вставляем
		booking, err := uc.insertWithFreshCode(txCtx, req, breakdown, totalPrice)
		if err != nil {
			return err
		}

		result = booking
		return nil
	})

	if err != nil {
		if isContention(err) {
			uc.logger.Warn("CreateBooking: admission contention for package id=%d: %v", req.PackageID, err)
			return nil, ErrAdmissionContention
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d code=%s package=%d total=%.2f (subtotal=%.2f, vat=%.2f%%)",
		result.ID, result.Code, req.PackageID, result.TotalPrice, result.Breakdown.Subtotal, uc.vatRate*100)

	if uc.notifier != nil {
		uc.notifier.BookingCreated(result)
	}

	return toResponse(result, pricing.DepositAmount(result.TotalPrice, uc.depositPercent)), nil
}

// insertWithFreshCode вставляет бронирование, повторяя генерацию кода
// при коллизии. Коллизия ловится и предварительной проверкой, и
// уникальным индексом на случай гонки.
func (uc *UseCase) insertWithFreshCode(ctx context.Context, req *Request, breakdown domain.PriceBreakdown, totalPrice float64) (*domain.Booking, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := newBookingCode()

		exists, err := uc.bookingRepo.CodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to check booking code: %v", ErrInternal, err)
		}
		if exists {
			continue
		}

		booking := &domain.Booking{
			Code:       code,
			PackageID:  req.PackageID,
			CustomerID: req.CustomerID,
			PickupDate: req.PickupDate,
			ReturnDate: req.ReturnDate,
			PickupTime: req.PickupTime,
			ReturnTime: req.ReturnTime,
			Location:   req.Location,
			Notes:      req.Notes,
			Status:     domain.StatusPending,
			TotalPrice: totalPrice,
			Breakdown:  breakdown,
		}

		created, err := uc.bookingRepo.Create(ctx, booking)
		if err != nil {
			if isCodeConflict(err) {
				continue
			}
			return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return created, nil
	}

	return nil, ErrCodeGeneration
}

func isContention(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	// Сериализуемые транзакции исчерпали повторы в transaction manager
	return errors.Is(err, txmanager.ErrRetriesExhausted) || errors.Is(err, simpletxmanager.ErrRetriesExhausted)
}

func isCodeConflict(err error) bool {
	return errors.Is(err, bookingRepo.ErrCodeConflict)
}

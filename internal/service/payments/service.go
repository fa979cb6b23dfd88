package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-RentalService/internal/pricing"
	"github.com/m04kA/SMC-RentalService/internal/service/payments/models"
)

// Service сервис депозитных платежей. Проверка платежа и подтверждение
// бронирования выполняются в одной транзакции: либо применяются оба
// изменения, либо ни одного.
type Service struct {
	paymentRepo    PaymentRepository
	bookingRepo    BookingRepository
	txManager      TransactionManager
	notifier       Notifier
	logger         Logger
	depositPercent float64
}

// NewService создает новый экземпляр сервиса платежей
func NewService(
	paymentRepo PaymentRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
	depositPercent float64,
) *Service {
	return &Service{
		paymentRepo:    paymentRepo,
		bookingRepo:    bookingRepo,
		txManager:      txManager,
		notifier:       notifier,
		logger:         logger,
		depositPercent: depositPercent,
	}
}

// SubmitSlip прикрепляет слип депозитного платежа к бронированию.
// Первый слип создаёт платёж, слип после отклонения замещает старый
// в той же записи. Сумма всегда равна доле депозита от текущей цены.
func (s *Service) SubmitSlip(ctx context.Context, bookingID int64, req *models.SubmitSlipRequest) (*models.PaymentResponse, error) {
	s.logger.Info("SubmitSlip: booking id=%d, customer=%d", bookingID, req.CustomerID)

	if strings.TrimSpace(req.SlipRef) == "" {
		s.logger.Warn("SubmitSlip: empty slip reference for booking id=%d", bookingID)
		return nil, fmt.Errorf("%w: slipRef must not be empty", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("SubmitSlip: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("SubmitSlip: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: SubmitSlip - repository error: %v", ErrInternal, err)
	}

	if booking.CustomerID != req.CustomerID {
		s.logger.Warn("SubmitSlip: access denied for customer=%d to booking id=%d", req.CustomerID, bookingID)
		return nil, ErrAccessDenied
	}

	// Депозит принимается только по ожидающему подтверждения бронированию
	if booking.Status != domain.StatusPending {
		s.logger.Warn("SubmitSlip: booking id=%d has status=%s, deposit slip not accepted", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: booking is not awaiting payment", ErrInvalidTransition)
	}

	amount := pricing.DepositAmount(booking.TotalPrice, s.depositPercent)

	existing, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil && !errors.Is(err, paymentRepo.ErrPaymentNotFound) {
		s.logger.Error("SubmitSlip: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: SubmitSlip - repository error: %v", ErrInternal, err)
	}

	if existing == nil {
		payment := &domain.Payment{
			BookingID: bookingID,
			Amount:    amount,
			SlipRef:   &req.SlipRef,
			Status:    domain.PaymentPending,
		}

		created, err := s.paymentRepo.Create(ctx, payment)
		if err != nil {
			s.logger.Error("SubmitSlip: failed to create payment for booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: SubmitSlip - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("SubmitSlip: created payment id=%d for booking id=%d, amount=%.2f", created.ID, bookingID, amount)
		return models.FromDomainPayment(created), nil
	}

	if existing.IsVerified() {
		s.logger.Warn("SubmitSlip: payment id=%d for booking id=%d is already verified", existing.ID, bookingID)
		return nil, ErrAlreadyVerified
	}
	if !existing.CanBeResubmitted() {
		s.logger.Warn("SubmitSlip: payment id=%d for booking id=%d is awaiting verification", existing.ID, bookingID)
		return nil, ErrPaymentPending
	}

	if err := s.paymentRepo.Supersede(ctx, existing.ID, req.SlipRef, amount); err != nil {
		s.logger.Error("SubmitSlip: failed to supersede payment id=%d: %v", existing.ID, err)
		return nil, fmt.Errorf("%w: SubmitSlip - repository error: %v", ErrInternal, err)
	}

	updated, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		s.logger.Error("SubmitSlip: failed to reload payment for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: SubmitSlip - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SubmitSlip: superseded payment id=%d for booking id=%d, amount=%.2f", existing.ID, bookingID, amount)
	return models.FromDomainPayment(updated), nil
}

// GetByBooking получает платёж по бронированию.
// Клиент видит только платёж своего бронирования.
func (s *Service) GetByBooking(ctx context.Context, bookingID int64, customerID int64, isAdmin bool) (*models.PaymentResponse, error) {
	s.logger.Info("GetByBooking: fetching payment for booking id=%d", bookingID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByBooking: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByBooking: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByBooking - repository error: %v", ErrInternal, err)
	}

	if !isAdmin && booking.CustomerID != customerID {
		s.logger.Warn("GetByBooking: access denied for customer=%d to booking id=%d", customerID, bookingID)
		return nil, ErrAccessDenied
	}

	payment, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Warn("GetByBooking: no payment for booking id=%d", bookingID)
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("GetByBooking: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByBooking - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPayment(payment), nil
}

// ApplyOutcome применяет исход проверки платежа. Подтверждение платежа
// и перевод бронирования в confirmed выполняются в одной транзакции:
// сбой любой записи откатывает обе.
func (s *Service) ApplyOutcome(ctx context.Context, bookingID int64, req *models.ApplyOutcomeRequest) (*models.ApplyOutcomeResponse, error) {
	s.logger.Info("ApplyOutcome: booking id=%d, outcome=%s, admin=%d", bookingID, req.Outcome, req.AdminID)

	if !domain.ValidPaymentOutcome(req.Outcome) {
		s.logger.Warn("ApplyOutcome: invalid outcome=%s for booking id=%d", req.Outcome, bookingID)
		return nil, fmt.Errorf("%w: outcome must be verified or rejected", ErrInvalidInput)
	}
	outcome := domain.PaymentStatus(req.Outcome)

	var (
		payment       *domain.Payment
		bookingStatus domain.BookingStatus
		confirmed     *domain.Booking
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: ApplyOutcome - repository error: %v", ErrInternal, err)
		}

		payment, err = s.paymentRepo.GetByBookingID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("%w: ApplyOutcome - repository error: %v", ErrInternal, err)
		}

		if payment.IsVerified() {
			return ErrAlreadyVerified
		}
		if payment.Status != domain.PaymentPending {
			return fmt.Errorf("%w: payment is not awaiting verification", ErrInvalidInput)
		}

		bookingStatus = booking.Status

		if outcome == domain.PaymentVerified {
			// Подтверждение платежа подтверждает и бронирование
			if !booking.CanTransitionTo(domain.StatusConfirmed) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, domain.StatusConfirmed)
			}
			if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, booking.Status, domain.StatusConfirmed); err != nil {
				if errors.Is(err, bookingRepo.ErrStatusConflict) {
					return fmt.Errorf("%w: booking status changed concurrently", ErrInvalidTransition)
				}
				return fmt.Errorf("%w: ApplyOutcome - repository error: %v", ErrInternal, err)
			}
			bookingStatus = domain.StatusConfirmed
			confirmed = booking
		}

		if err := s.paymentRepo.SetOutcome(txCtx, payment.ID, outcome, req.AdminID, req.Notes); err != nil {
			return fmt.Errorf("%w: ApplyOutcome - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Warn("ApplyOutcome: booking id=%d, outcome=%s failed: %v", bookingID, req.Outcome, err)
		return nil, err
	}

	s.logger.Info("ApplyOutcome: booking id=%d, payment id=%d, outcome=%s, booking status=%s",
		bookingID, payment.ID, outcome, bookingStatus)

	if confirmed != nil && s.notifier != nil {
		s.notifier.BookingConfirmed(confirmed)
	}

	reloaded, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		s.logger.Error("ApplyOutcome: failed to reload payment for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ApplyOutcome - repository error: %v", ErrInternal, err)
	}

	return &models.ApplyOutcomeResponse{
		Payment:       *models.FromDomainPayment(reloaded),
		BookingStatus: string(bookingStatus),
	}, nil
}

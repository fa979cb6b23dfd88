package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-RentalService/internal/service/payments/models"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

type fakePaymentRepo struct {
	payment    *domain.Payment
	getErr     error
	created    *domain.Payment
	superseded bool
	outcome    *domain.PaymentStatus
	verifierID int64
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
	p := *payment
	p.ID = 100
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.created = &p
	return &p, nil
}

func (r *fakePaymentRepo) GetByBookingID(_ context.Context, _ int64) (*domain.Payment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.payment == nil {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	return r.payment, nil
}

func (r *fakePaymentRepo) Supersede(_ context.Context, _ int64, slipRef string, amount float64) error {
	r.superseded = true
	r.payment.SlipRef = &slipRef
	r.payment.Amount = amount
	r.payment.Status = domain.PaymentPending
	return nil
}

func (r *fakePaymentRepo) SetOutcome(_ context.Context, _ int64, outcome domain.PaymentStatus, verifierID int64, _ *string) error {
	r.outcome = &outcome
	r.verifierID = verifierID
	r.payment.Status = outcome
	return nil
}

type fakeBookingRepo struct {
	booking       *domain.Booking
	getErr        error
	updatedStatus *domain.BookingStatus
	updatedFrom   *domain.BookingStatus
	updateErr     error
}

func (r *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.booking, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, from, to domain.BookingStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updatedFrom = &from
	r.updatedStatus = &to
	return nil
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fakeNotifier struct {
	confirmed []*domain.Booking
}

func (n *fakeNotifier) BookingConfirmed(b *domain.Booking) {
	n.confirmed = append(n.confirmed, b)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:         7,
		CustomerID: 42,
		Status:     domain.StatusPending,
		TotalPrice: 1605,
	}
}

func pendingPayment() *domain.Payment {
	return &domain.Payment{
		ID:        100,
		BookingID: 7,
		Amount:    802.5,
		SlipRef:   ptr.Ptr("slip-001"),
		Status:    domain.PaymentPending,
	}
}

func newTestService(payments *fakePaymentRepo, bookings *fakeBookingRepo, tx *fakeTxManager, notifier Notifier) *Service {
	return NewService(payments, bookings, tx, notifier, nopLogger{}, 0.50)
}

func TestSubmitSlip_CreatesPayment(t *testing.T) {
	payments := &fakePaymentRepo{}
	bookings := &fakeBookingRepo{booking: pendingBooking()}
	svc := newTestService(payments, bookings, &fakeTxManager{}, nil)

	resp, err := svc.SubmitSlip(context.Background(), 7, &models.SubmitSlipRequest{
		CustomerID: 42,
		SlipRef:    "slip-001",
	})
	require.NoError(t, err)

	// Депозит - половина итоговой цены
	assert.Equal(t, 802.5, resp.Amount)
	assert.Equal(t, "pending", resp.Status)
	require.NotNil(t, payments.created)
	assert.Equal(t, int64(7), payments.created.BookingID)
}

func TestSubmitSlip_EmptySlipRef(t *testing.T) {
	svc := newTestService(&fakePaymentRepo{}, &fakeBookingRepo{}, &fakeTxManager{}, nil)

	_, err := svc.SubmitSlip(context.Background(), 7, &models.SubmitSlipRequest{
		CustomerID: 42,
		SlipRef:    "   ",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitSlip_OtherCustomerDenied(t *testing.T) {
	bookings := &fakeBookingRepo{booking: pendingBooking()}
	svc := newTestService(&fakePaymentRepo{}, bookings, &fakeTxManager{}, nil)

	_, err := svc.SubmitSlip(context.Background(), 7, &models.SubmitSlipRequest{
		CustomerID: 99,
		SlipRef:    "slip-001",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSubmitSlip_BookingNotPending(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed

	bookings := &fakeBookingRepo{booking: booking}
	svc := newTestService(&fakePaymentRepo{}, bookings, &fakeTxManager{}, nil)

	_, err := svc.SubmitSlip(context.Background(), 7, &models.SubmitSlipRequest{
		CustomerID: 42,
		SlipRef:    "slip-001",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSubmitSlip_PendingPaymentNotReplaced(t *testing.T) {
	payments := &fakePaymentRepo{payment: pendingPayment()}
	bookings := &fakeBookingRepo{booking: pendingBooking()}
	svc := newTestService(payments, bookings, &fakeTxManager{}, nil)

	_, err := svc.SubmitSlip(context.Background(), 7, &models.SubmitSlipRequest{
		CustomerID: 42,
		SlipRef:    "slip-002",
	})
	assert.ErrorIs(t, err, ErrPaymentPending)
	assert.False(t, payments.superseded)
}

func TestSubmitSlip_VerifiedPaymentNotReplaced(t *testing.T) {
	payment := pendingPayment()
	payment.Status = domain.PaymentVerified

	payments := &fakePaymentRepo{payment: payment}
	bookings := &fakeBookingRepo{booking: pendingBooking()}
	svc := newTestService(payments, bookings, &fakeTxManager{}, nil)

	_, err := svc.SubmitSlip(context.Background(), 7, &models.SubmitSlipRequest{
		CustomerID: 42,
		SlipRef:    "slip-002",
	})
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestSubmitSlip_RejectedPaymentSuperseded(t *testing.T) {
	payment := pendingPayment()
	payment.Status = domain.PaymentRejected

	payments := &fakePaymentRepo{payment: payment}
	bookings := &fakeBookingRepo{booking: pendingBooking()}
	svc := newTestService(payments, bookings, &fakeTxManager{}, nil)

	resp, err := svc.SubmitSlip(context.Background(), 7, &models.SubmitSlipRequest{
		CustomerID: 42,
		SlipRef:    "slip-002",
	})
	require.NoError(t, err)

	assert.True(t, payments.superseded)
	assert.Equal(t, "pending", resp.Status)
	require.NotNil(t, resp.SlipRef)
	assert.Equal(t, "slip-002", *resp.SlipRef)
}

func TestApplyOutcome_VerifiedConfirmsBooking(t *testing.T) {
	payments := &fakePaymentRepo{payment: pendingPayment()}
	bookings := &fakeBookingRepo{booking: pendingBooking()}
	tx := &fakeTxManager{}
	notifier := &fakeNotifier{}
	svc := newTestService(payments, bookings, tx, notifier)

	resp, err := svc.ApplyOutcome(context.Background(), 7, &models.ApplyOutcomeRequest{
		AdminID: 1,
		Outcome: "verified",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, "confirmed", resp.BookingStatus)
	assert.Equal(t, "verified", resp.Payment.Status)

	require.NotNil(t, bookings.updatedStatus)
	assert.Equal(t, domain.StatusConfirmed, *bookings.updatedStatus)
	require.NotNil(t, bookings.updatedFrom)
	assert.Equal(t, domain.StatusPending, *bookings.updatedFrom)
	require.NotNil(t, payments.outcome)
	assert.Equal(t, domain.PaymentVerified, *payments.outcome)
	assert.Equal(t, int64(1), payments.verifierID)

	require.Len(t, notifier.confirmed, 1)
}

func TestApplyOutcome_ConcurrentStatusChange(t *testing.T) {
	payments := &fakePaymentRepo{payment: pendingPayment()}
	bookings := &fakeBookingRepo{booking: pendingBooking(), updateErr: bookingRepo.ErrStatusConflict}
	svc := newTestService(payments, bookings, &fakeTxManager{}, nil)

	// Бронирование сменило статус между чтением и подтверждением
	_, err := svc.ApplyOutcome(context.Background(), 7, &models.ApplyOutcomeRequest{
		AdminID: 1,
		Outcome: "verified",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, payments.outcome)
}

func TestApplyOutcome_RejectedKeepsBookingPending(t *testing.T) {
	payments := &fakePaymentRepo{payment: pendingPayment()}
	bookings := &fakeBookingRepo{booking: pendingBooking()}
	notifier := &fakeNotifier{}
	svc := newTestService(payments, bookings, &fakeTxManager{}, notifier)

	resp, err := svc.ApplyOutcome(context.Background(), 7, &models.ApplyOutcomeRequest{
		AdminID: 1,
		Outcome: "rejected",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.BookingStatus)
	assert.Equal(t, "rejected", resp.Payment.Status)
	assert.Nil(t, bookings.updatedStatus)
	assert.Empty(t, notifier.confirmed)
}

func TestApplyOutcome_InvalidOutcome(t *testing.T) {
	svc := newTestService(&fakePaymentRepo{}, &fakeBookingRepo{}, &fakeTxManager{}, nil)

	_, err := svc.ApplyOutcome(context.Background(), 7, &models.ApplyOutcomeRequest{
		AdminID: 1,
		Outcome: "approved",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApplyOutcome_AlreadyVerified(t *testing.T) {
	payment := pendingPayment()
	payment.Status = domain.PaymentVerified

	payments := &fakePaymentRepo{payment: payment}
	bookings := &fakeBookingRepo{booking: pendingBooking()}
	svc := newTestService(payments, bookings, &fakeTxManager{}, nil)

	_, err := svc.ApplyOutcome(context.Background(), 7, &models.ApplyOutcomeRequest{
		AdminID: 1,
		Outcome: "verified",
	})
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestApplyOutcome_CancelledBookingNotConfirmable(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusCancelled

	payments := &fakePaymentRepo{payment: pendingPayment()}
	bookings := &fakeBookingRepo{booking: booking}
	svc := newTestService(payments, bookings, &fakeTxManager{}, nil)

	_, err := svc.ApplyOutcome(context.Background(), 7, &models.ApplyOutcomeRequest{
		AdminID: 1,
		Outcome: "verified",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, bookings.updatedStatus)
}

func TestApplyOutcome_PaymentNotFound(t *testing.T) {
	payments := &fakePaymentRepo{}
	bookings := &fakeBookingRepo{booking: pendingBooking()}
	svc := newTestService(payments, bookings, &fakeTxManager{}, nil)

	_, err := svc.ApplyOutcome(context.Background(), 7, &models.ApplyOutcomeRequest{
		AdminID: 1,
		Outcome: "verified",
	})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestGetByBooking(t *testing.T) {
	payments := &fakePaymentRepo{payment: pendingPayment()}
	bookings := &fakeBookingRepo{booking: pendingBooking()}
	svc := newTestService(payments, bookings, &fakeTxManager{}, nil)

	resp, err := svc.GetByBooking(context.Background(), 7, 42, false)
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)

	_, err = svc.GetByBooking(context.Background(), 7, 99, false)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByBooking(context.Background(), 7, 99, true)
	assert.NoError(t, err)
}

func TestGetByBooking_BookingNotFound(t *testing.T) {
	bookings := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	svc := newTestService(&fakePaymentRepo{}, bookings, &fakeTxManager{}, nil)

	_, err := svc.GetByBooking(context.Background(), 7, 42, false)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

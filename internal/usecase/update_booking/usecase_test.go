package update_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/policy"
	"github.com/m04kA/SMC-RentalService/internal/pricing"
)

type fakeBookingRepo struct {
	booking *domain.Booking
	active  []*domain.Booking
	getErr  error
	updated *domain.Booking
}

func (r *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.booking, nil
}

func (r *fakeBookingRepo) GetActiveInRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Booking, error) {
	return r.active, nil
}

func (r *fakeBookingRepo) UpdateDetails(_ context.Context, booking *domain.Booking) error {
	b := *booking
	r.updated = &b
	return nil
}

type fakePackageRepo struct {
	pkg *domain.RentalPackage
}

func (r *fakePackageRepo) GetByID(_ context.Context, _ int64) (*domain.RentalPackage, error) {
	return r.pkg, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateFormat, s)
	require.NoError(t, err)
	return parsed
}

func existingBooking(t *testing.T) *domain.Booking {
	return &domain.Booking{
		ID:         7,
		Code:       "RNT-AAAA0001",
		PackageID:  1,
		CustomerID: 42,
		PickupDate: day(t, "2025-10-10"),
		ReturnDate: day(t, "2025-10-11"),
		PickupTime: "10:00",
		ReturnTime: "18:00",
		Location:   "склад №1",
		Status:     domain.StatusPending,
		TotalPrice: 1605,
	}
}

func newTestUseCase(bookings *fakeBookingRepo, packages *fakePackageRepo) *UseCase {
	calc := pricing.NewCalculator(pricing.DefaultRates(), nil)
	pol := policy.NewCancellationPolicy(24*time.Hour, policy.DefaultPenaltyBuckets())
	uc := NewUseCase(bookings, packages, calc, pol, fakeTxManager{}, nopLogger{}, 0.07, 5*time.Second)
	uc.timeProvider = &fakeTime{now: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)}
	return uc
}

func validRequest(t *testing.T) *Request {
	return &Request{
		BookingID:  7,
		CustomerID: 42,
		PickupDate: day(t, "2025-10-13"),
		ReturnDate: day(t, "2025-10-14"),
		PickupTime: "09:00",
		ReturnTime: "17:00",
		Location:   "склад №2",
	}
}

func TestExecute_ReschedulesAndReprices(t *testing.T) {
	bookings := &fakeBookingRepo{booking: existingBooking(t)}
	packages := &fakePackageRepo{pkg: &domain.RentalPackage{
		ID:                        1,
		BasePricePerDay:           1000,
		MaxConcurrentReservations: 1,
		IsActive:                  true,
	}}
	uc := newTestUseCase(bookings, packages)

	resp, err := uc.Execute(context.Background(), validRequest(t))
	require.NoError(t, err)

	// Пн 2025-10-13 - вт 2025-10-14: 1000 + 400 = 1400, с VAT = 1498
	assert.Equal(t, 1400.0, resp.Breakdown.Subtotal)
	assert.Equal(t, 1498.0, resp.TotalPrice)
	assert.Equal(t, "склад №2", resp.Location)

	require.NotNil(t, bookings.updated)
	assert.Equal(t, day(t, "2025-10-13"), bookings.updated.PickupDate)
	assert.Equal(t, 1498.0, bookings.updated.TotalPrice)
}

func TestExecute_OwnBookingExcludedFromUsage(t *testing.T) {
	// Единственное активное бронирование в диапазоне - само переносимое;
	// при вместимости 1 перенос внутри своего диапазона должен пройти
	own := existingBooking(t)
	bookings := &fakeBookingRepo{
		booking: own,
		active:  []*domain.Booking{own},
	}
	packages := &fakePackageRepo{pkg: &domain.RentalPackage{
		ID:                        1,
		BasePricePerDay:           1000,
		MaxConcurrentReservations: 1,
		IsActive:                  true,
	}}
	uc := newTestUseCase(bookings, packages)

	req := validRequest(t)
	req.PickupDate = day(t, "2025-10-10")
	req.ReturnDate = day(t, "2025-10-12")

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_OtherBookingBlocksNewDates(t *testing.T) {
	other := existingBooking(t)
	other.ID = 8
	other.PickupDate = day(t, "2025-10-13")
	other.ReturnDate = day(t, "2025-10-15")

	bookings := &fakeBookingRepo{
		booking: existingBooking(t),
		active:  []*domain.Booking{other},
	}
	packages := &fakePackageRepo{pkg: &domain.RentalPackage{
		ID:                        1,
		BasePricePerDay:           1000,
		MaxConcurrentReservations: 1,
		IsActive:                  true,
	}}
	uc := newTestUseCase(bookings, packages)

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrDatesUnavailable)
	assert.Nil(t, bookings.updated)
}

func TestExecute_AccessDenied(t *testing.T) {
	bookings := &fakeBookingRepo{booking: existingBooking(t)}
	packages := &fakePackageRepo{pkg: &domain.RentalPackage{ID: 1, BasePricePerDay: 1000, IsActive: true}}
	uc := newTestUseCase(bookings, packages)

	req := validRequest(t)
	req.CustomerID = 99

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_TooCloseToPickup(t *testing.T) {
	booking := existingBooking(t)
	booking.PickupDate = day(t, "2025-10-01")
	booking.PickupTime = "18:00"

	bookings := &fakeBookingRepo{booking: booking}
	packages := &fakePackageRepo{pkg: &domain.RentalPackage{ID: 1, BasePricePerDay: 1000, IsActive: true}}
	uc := newTestUseCase(bookings, packages)

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrModificationNotAllowed)
}

func TestExecute_TerminalBookingNotModifiable(t *testing.T) {
	booking := existingBooking(t)
	booking.Status = domain.StatusCancelled

	bookings := &fakeBookingRepo{booking: booking}
	packages := &fakePackageRepo{pkg: &domain.RentalPackage{ID: 1, BasePricePerDay: 1000, IsActive: true}}
	uc := newTestUseCase(bookings, packages)

	_, err := uc.Execute(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, ErrModificationNotAllowed)
}

func TestExecute_ValidationFailsBeforeLoad(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakePackageRepo{})

	req := validRequest(t)
	req.ReturnDate = day(t, "2025-10-12")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFirstFullDayExcluding(t *testing.T) {
	other := &domain.Booking{
		ID:         8,
		Status:     domain.StatusConfirmed,
		PickupDate: day(t, "2025-10-14"),
		ReturnDate: day(t, "2025-10-14"),
	}
	own := &domain.Booking{
		ID:         7,
		Status:     domain.StatusPending,
		PickupDate: day(t, "2025-10-13"),
		ReturnDate: day(t, "2025-10-14"),
	}

	got := firstFullDayExcluding(day(t, "2025-10-13"), day(t, "2025-10-14"), []*domain.Booking{other, own}, 7, 1)
	assert.Equal(t, "2025-10-14", got)

	got = firstFullDayExcluding(day(t, "2025-10-13"), day(t, "2025-10-14"), []*domain.Booking{own}, 7, 1)
	assert.Equal(t, "", got)
}

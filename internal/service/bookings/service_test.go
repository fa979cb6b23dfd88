package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RentalService/internal/policy"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

type fakeBookingRepo struct {
	booking        *domain.Booking
	list           []*domain.Booking
	getErr         error
	cancelled      []int64
	cancelReason   string
	cancelledFrom  *domain.BookingStatus
	cancelErr      error
	updatedStatus  *domain.BookingStatus
	updatedFrom    *domain.BookingStatus
	updateErr      error
	listStatusSeen *domain.BookingStatus
}

func (r *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.booking, nil
}

func (r *fakeBookingRepo) GetByCode(_ context.Context, _ string) (*domain.Booking, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.booking, nil
}

func (r *fakeBookingRepo) GetByCustomerID(_ context.Context, _ int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	r.listStatusSeen = status
	return r.list, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, from, to domain.BookingStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updatedFrom = &from
	r.updatedStatus = &to
	return nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string, from domain.BookingStatus) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	r.cancelled = append(r.cancelled, id)
	r.cancelReason = reason
	r.cancelledFrom = &from
	return nil
}

type fakeNotifier struct {
	cancelled []float64
}

func (n *fakeNotifier) BookingCancelled(_ *domain.Booking, penaltyRate float64) {
	n.cancelled = append(n.cancelled, penaltyRate)
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

func testBooking(t *testing.T) *domain.Booking {
	return &domain.Booking{
		ID:         7,
		Code:       "RNT-AAAA0001",
		PackageID:  1,
		CustomerID: 42,
		PickupDate: day(t, "2025-10-05"),
		ReturnDate: day(t, "2025-10-06"),
		PickupTime: "10:00",
		ReturnTime: "18:00",
		Location:   "склад №1",
		Status:     domain.StatusConfirmed,
		TotalPrice: 1605,
	}
}

func newTestService(repo *fakeBookingRepo, notifier Notifier) *Service {
	pol := policy.NewCancellationPolicy(24*time.Hour, policy.DefaultPenaltyBuckets())
	svc := NewService(repo, pol, notifier, nopLogger{})
	svc.timeProvider = &fakeTime{now: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)}
	return svc
}

func TestGetByID_Owner(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t)}
	svc := newTestService(repo, nil)

	resp, err := svc.GetByID(context.Background(), 7, 42, false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "RNT-AAAA0001", resp.Code)
}

func TestGetByID_OtherCustomerDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t)}
	svc := newTestService(repo, nil)

	_, err := svc.GetByID(context.Background(), 7, 99, false)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_AdminSeesAny(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t)}
	svc := newTestService(repo, nil)

	resp, err := svc.GetByID(context.Background(), 7, 99, true)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.CustomerID)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	svc := newTestService(repo, nil)

	_, err := svc.GetByID(context.Background(), 7, 42, false)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetCustomerBookings_StatusFilter(t *testing.T) {
	repo := &fakeBookingRepo{list: []*domain.Booking{testBooking(t)}}
	svc := newTestService(repo, nil)

	resp, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: 42,
		Status:     ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	require.NotNil(t, repo.listStatusSeen)
	assert.Equal(t, domain.StatusConfirmed, *repo.listStatusSeen)
}

func TestGetCustomerBookings_InvalidStatus(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{}, nil)

	_, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: 42,
		Status:     ptr.Ptr("expired"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_AppliesPenaltyRate(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t)}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	// До получения 2025-10-05 10:00 остаётся чуть больше 4 суток: ставка 15%
	resp, err := svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{
		CustomerID:         42,
		CancellationReason: "передумал",
	})
	require.NoError(t, err)

	assert.Equal(t, 0.15, resp.PenaltyRate)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, []int64{7}, repo.cancelled)
	assert.Equal(t, "передумал", repo.cancelReason)
	require.NotNil(t, repo.cancelledFrom)
	assert.Equal(t, domain.StatusConfirmed, *repo.cancelledFrom)
	assert.Equal(t, []float64{0.15}, notifier.cancelled)
}

func TestCancel_ConcurrentStatusChange(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t), cancelErr: bookingRepo.ErrStatusConflict}
	svc := newTestService(repo, nil)

	// Статус изменился между чтением и обновлением: отмена не проходит
	_, err := svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{CustomerID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_OtherCustomerDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t)}
	svc := newTestService(repo, nil)

	_, err := svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{CustomerID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.cancelled)
}

func TestCancel_AdminCancelsAny(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(t)}
	svc := newTestService(repo, nil)

	resp, err := svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{
		CustomerID: 99,
		IsAdmin:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.BookingID)
}

func TestCancel_AfterPickupDenied(t *testing.T) {
	booking := testBooking(t)
	booking.PickupDate = day(t, "2025-09-30")

	repo := &fakeBookingRepo{booking: booking}
	svc := newTestService(repo, nil)

	_, err := svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{CustomerID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, repo.cancelled)
}

func TestCancel_TerminalBookingDenied(t *testing.T) {
	booking := testBooking(t)
	booking.Status = domain.StatusCompleted

	repo := &fakeBookingRepo{booking: booking}
	svc := newTestService(repo, nil)

	_, err := svc.Cancel(context.Background(), 7, &models.CancelBookingRequest{CustomerID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestUpdateStatus_AllowedTransition(t *testing.T) {
	booking := testBooking(t)
	booking.Status = domain.StatusPending

	repo := &fakeBookingRepo{booking: booking}
	svc := newTestService(repo, nil)

	err := svc.UpdateStatus(context.Background(), 7, &models.UpdateStatusRequest{
		AdminID: 1,
		Status:  "confirmed",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, domain.StatusConfirmed, *repo.updatedStatus)
	require.NotNil(t, repo.updatedFrom)
	assert.Equal(t, domain.StatusPending, *repo.updatedFrom)
}

func TestUpdateStatus_ConcurrentStatusChange(t *testing.T) {
	booking := testBooking(t)
	booking.Status = domain.StatusPending

	repo := &fakeBookingRepo{booking: booking, updateErr: bookingRepo.ErrStatusConflict}
	svc := newTestService(repo, nil)

	err := svc.UpdateStatus(context.Background(), 7, &models.UpdateStatusRequest{
		AdminID: 1,
		Status:  "confirmed",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_TerminalTransitionDenied(t *testing.T) {
	booking := testBooking(t)
	booking.Status = domain.StatusCancelled

	repo := &fakeBookingRepo{booking: booking}
	svc := newTestService(repo, nil)

	err := svc.UpdateStatus(context.Background(), 7, &models.UpdateStatusRequest{
		AdminID: 1,
		Status:  "confirmed",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, repo.updatedStatus)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{}, nil)

	err := svc.UpdateStatus(context.Background(), 7, &models.UpdateStatusRequest{
		AdminID: 1,
		Status:  "unknown",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

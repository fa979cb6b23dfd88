package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateFormat, s)
	require.NoError(t, err)
	return parsed
}

func bookingRow(t *testing.T, id int64) *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns).AddRow(
		id,                   // id
		"RNT-AAAA0001",       // code
		int64(1),             // package_id
		int64(42),            // customer_id
		day(t, "2025-10-03"), // pickup_date
		day(t, "2025-10-04"), // return_date
		"10:00",              // pickup_time
		"18:00",              // return_time
		"склад №1",           // location
		nil,                  // notes
		"pending",            // status
		1605.0,               // total_price
		2,                    // rental_days
		1000.0,               // base_day
		400.0,                // day2_surcharge
		0.0,                  // day3_6_surcharge
		0.0,                  // day7_plus_surcharge
		100.0,                // weekend_holiday_surcharge
		1500.0,               // subtotal
		nil,                  // cancellation_reason
		nil,                  // cancelled_at
		time.Now(),           // created_at
		time.Now(),           // updated_at
	)
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), now, now))

	booking := &domain.Booking{
		Code:       "RNT-AAAA0001",
		PackageID:  1,
		CustomerID: 42,
		PickupDate: day(t, "2025-10-03"),
		ReturnDate: day(t, "2025-10-04"),
		PickupTime: "10:00",
		ReturnTime: "18:00",
		Location:   "склад №1",
		Status:     domain.StatusPending,
		TotalPrice: 1605,
		Breakdown: domain.PriceBreakdown{
			RentalDays:              2,
			BaseDay:                 1000,
			Day2Surcharge:           400,
			WeekendHolidaySurcharge: 100,
			Subtotal:                1500,
		},
	}

	created, err := repo.Create(context.Background(), booking)
	require.NoError(t, err)

	assert.Equal(t, int64(7), created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_CodeConflict(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Booking{Code: "RNT-AAAA0001"})
	assert.ErrorIs(t, err, ErrCodeConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(int64(7)).
		WillReturnRows(bookingRow(t, 7))

	booking, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), booking.ID)
	assert.Equal(t, "RNT-AAAA0001", booking.Code)
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, 1500.0, booking.Breakdown.Subtotal)
	assert.Equal(t, "10:00", booking.PickupTime.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetActiveInRange(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(int64(1), "pending", "confirmed", day(t, "2025-10-04"), day(t, "2025-10-03")).
		WillReturnRows(bookingRow(t, 7))

	bookings, err := repo.GetActiveInRange(context.Background(), 1, day(t, "2025-10-03"), day(t, "2025-10-04"))
	require.NoError(t, err)

	require.Len(t, bookings, 1)
	assert.Equal(t, int64(7), bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCodeExists(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT 1 FROM bookings").
		WithArgs("RNT-AAAA0001").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.CodeExists(context.Background(), "RNT-AAAA0001")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM bookings").
		WithArgs("RNT-FFFF0001").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.CodeExists(context.Background(), "RNT-FFFF0001")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateStatus(t *testing.T) {
	repo, mock := newMock(t)

	// Ожидаемый исходный статус входит в условие UPDATE
	mock.ExpectExec("UPDATE bookings SET status = (.+) WHERE id = (.+) AND status = (.+)").
		WithArgs(domain.StatusConfirmed, int64(7), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 7, domain.StatusPending, domain.StatusConfirmed)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_StatusConflict(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE bookings SET status = (.+) WHERE id = (.+) AND status = (.+)").
		WithArgs(domain.StatusConfirmed, int64(99), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, domain.StatusPending, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestCancel(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE bookings SET (.+) WHERE id = (.+) AND status = (.+)").
		WithArgs(domain.StatusCancelled, "передумал", int64(7), domain.StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), 7, "передумал", domain.StatusConfirmed)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_StatusConflict(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE bookings SET (.+) WHERE id = (.+) AND status = (.+)").
		WithArgs(domain.StatusCancelled, "передумал", int64(7), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Cancel(context.Background(), 7, "передумал", domain.StatusPending)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestCancelBatch(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE bookings").
		WithArgs("cancelled", "deposit overdue", pq.Array([]int64{3, 5}), "pending").
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.CancelBatch(context.Background(), []int64{3, 5}, "deposit overdue")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
}

func TestCancelBatch_EmptyList(t *testing.T) {
	repo, _ := newMock(t)

	affected, err := repo.CancelBatch(context.Background(), nil, "deposit overdue")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestGetPendingUnpaidBefore(t *testing.T) {
	repo, mock := newMock(t)

	deadline := day(t, "2025-10-01")
	mock.ExpectQuery("SELECT b.id").
		WithArgs("pending", deadline).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(5))

	ids, err := repo.GetPendingUnpaidBefore(context.Background(), deadline)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 5}, ids)
}

package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникального индекса
const uniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"code",
	"package_id",
	"customer_id",
	"pickup_date",
	"return_date",
	"pickup_time",
	"return_time",
	"location",
	"notes",
	"status",
	"total_price",
	"rental_days",
	"base_day",
	"day2_surcharge",
	"day3_6_surcharge",
	"day7_plus_surcharge",
	"weekend_holiday_surcharge",
	"subtotal",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её —
// при создании через admission-контроль вставка обязана происходить
// в той же транзакции, что и проверка занятости.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"code",
			"package_id",
			"customer_id",
			"pickup_date",
			"return_date",
			"pickup_time",
			"return_time",
			"location",
			"notes",
			"status",
			"total_price",
			"rental_days",
			"base_day",
			"day2_surcharge",
			"day3_6_surcharge",
			"day7_plus_surcharge",
			"weekend_holiday_surcharge",
			"subtotal",
		).
		Values(
			booking.Code,
			booking.PackageID,
			booking.CustomerID,
			booking.PickupDate,
			booking.ReturnDate,
			booking.PickupTime,
			booking.ReturnTime,
			booking.Location,
			booking.Notes,
			booking.Status,
			booking.TotalPrice,
			booking.Breakdown.RentalDays,
			booking.Breakdown.BaseDay,
			booking.Breakdown.Day2Surcharge,
			booking.Breakdown.Day36Surcharge,
			booking.Breakdown.Day7PlusSurcharge,
			booking.Breakdown.WeekendHolidaySurcharge,
			booking.Breakdown.Subtotal,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCodeConflict
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByCode получает бронирование по уникальному коду
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code}, "GetByCode")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, method string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
	}

	return booking, nil
}

// GetByCustomerID получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("pickup_date DESC, created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveInRange получает активные (pending, confirmed) бронирования пакета,
// пересекающиеся с диапазоном дат [from, to] включительно.
//
// Внутри транзакции добавляет FOR UPDATE: admission-контроль блокирует
// пересекающиеся строки пакета, чтобы две одновременные попытки не увидели
// обе свободное место. Вне транзакции запрос read-only и блокировок не берёт.
func (r *Repository) GetActiveInRange(ctx context.Context, packageID int64, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"package_id": packageID}).
		Where(squirrel.Eq{"status": activeStatuses}).
		Where(squirrel.LtOrEq{"pickup_date": to}).
		Where(squirrel.GtOrEq{"return_date": from}).
		OrderBy("pickup_date ASC, id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// CodeExists проверяет, занят ли код бронирования
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: CodeExists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: CodeExists - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to.
// Ожидаемый статус входит в условие UPDATE, поэтому конкурирующий
// переход не перезапишет чужой результат. Если строка уже в другом
// статусе, возвращается ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus", ErrStatusConflict)
}

// Cancel переводит бронирование из статуса from в cancelled с указанием
// причины. Как и UpdateStatus, защищён от конкурирующего перехода
// условием на ожидаемый статус.
func (r *Repository) Cancel(ctx context.Context, id int64, reason string, from domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel", ErrStatusConflict)
}

// CancelBatch массово отменяет бронирования по списку ID.
// Используется фоновой задачей отмены неоплаченных бронирований.
func (r *Repository) CancelBatch(ctx context.Context, ids []int64, reason string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query := `UPDATE bookings
		SET status = $1, cancellation_reason = $2, cancelled_at = NOW(), updated_at = NOW()
		WHERE id = ANY($3) AND status = $4`

	result, err := executor.ExecContext(ctx, query,
		domain.StatusCancelled, reason, pq.Array(ids), domain.StatusPending)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelBatch - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelBatch - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// UpdateDetails обновляет даты, время, место и заметки бронирования
// вместе с пересчитанной ценой. Вызывается только из транзакции
// admission-контроля изменения бронирования.
func (r *Repository) UpdateDetails(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("pickup_date", b.PickupDate).
		Set("return_date", b.ReturnDate).
		Set("pickup_time", b.PickupTime).
		Set("return_time", b.ReturnTime).
		Set("location", b.Location).
		Set("notes", b.Notes).
		Set("total_price", b.TotalPrice).
		Set("rental_days", b.Breakdown.RentalDays).
		Set("base_day", b.Breakdown.BaseDay).
		Set("day2_surcharge", b.Breakdown.Day2Surcharge).
		Set("day3_6_surcharge", b.Breakdown.Day36Surcharge).
		Set("day7_plus_surcharge", b.Breakdown.Day7PlusSurcharge).
		Set("weekend_holiday_surcharge", b.Breakdown.WeekendHolidaySurcharge).
		Set("subtotal", b.Breakdown.Subtotal).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateDetails - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateDetails", ErrBookingNotFound)
}

// GetPendingUnpaidBefore возвращает ID pending бронирований, созданных
// раньше deadline и не имеющих подтверждённого депозита
func (r *Repository) GetPendingUnpaidBefore(ctx context.Context, deadline time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query := `SELECT b.id
		FROM bookings b
		LEFT JOIN payments p ON p.booking_id = b.id AND p.status = 'verified'
		WHERE b.status = $1 AND b.created_at < $2 AND p.id IS NULL
		ORDER BY b.id ASC`

	rows, err := executor.QueryContext(ctx, query, domain.StatusPending, deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingUnpaidBefore - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetPendingUnpaidBefore - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetPendingUnpaidBefore - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, method string, zeroRows error) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return zeroRows
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.Code,
		&booking.PackageID,
		&booking.CustomerID,
		&booking.PickupDate,
		&booking.ReturnDate,
		&booking.PickupTime,
		&booking.ReturnTime,
		&booking.Location,
		&booking.Notes,
		&booking.Status,
		&booking.TotalPrice,
		&booking.Breakdown.RentalDays,
		&booking.Breakdown.BaseDay,
		&booking.Breakdown.Day2Surcharge,
		&booking.Breakdown.Day36Surcharge,
		&booking.Breakdown.Day7PlusSurcharge,
		&booking.Breakdown.WeekendHolidaySurcharge,
		&booking.Breakdown.Subtotal,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var paymentColumns = []string{
	"id",
	"booking_id",
	"amount",
	"slip_ref",
	"status",
	"verified_by",
	"verified_at",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с депозитными платежами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый платёж по бронированию
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns(
			"booking_id",
			"amount",
			"slip_ref",
			"status",
			"notes",
		).
		Values(
			payment.BookingID,
			payment.Amount,
			payment.SlipRef,
			payment.Status,
			payment.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return payment, nil
}

// GetByBookingID получает платёж по ID бронирования.
// На бронирование существует не более одного платежа.
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	payment, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan payment: %v", ErrScanRow, err)
	}

	return payment, nil
}

// Supersede замещает отклонённый слип новым: тот же платёж возвращается
// в pending с новым slip_ref и сброшенными полями проверки
func (r *Repository) Supersede(ctx context.Context, id int64, slipRef string, amount float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payments").
		Set("slip_ref", slipRef).
		Set("amount", amount).
		Set("status", domain.PaymentPending).
		Set("verified_by", nil).
		Set("verified_at", nil).
		Set("notes", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Supersede - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Supersede")
}

// SetOutcome записывает исход проверки платежа.
// verified_by и verified_at заполняются только при verified.
func (r *Repository) SetOutcome(ctx context.Context, id int64, outcome domain.PaymentStatus, verifierID int64, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("payments").
		Set("status", outcome).
		Set("notes", notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if outcome == domain.PaymentVerified {
		updateBuilder = updateBuilder.
			Set("verified_by", verifierID).
			Set("verified_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetOutcome - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "SetOutcome")
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, method string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.SlipRef,
		&payment.Status,
		&payment.VerifiedBy,
		&payment.VerifiedAt,
		&payment.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return &payment, nil
}

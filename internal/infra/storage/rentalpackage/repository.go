package rentalpackage

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

var packageColumns = []string{
	"id",
	"name",
	"base_price_per_day",
	"max_concurrent_reservations",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для чтения пакетов аренды.
// Пакеты создаются и редактируются админской подсистемой,
// движок бронирования их только читает.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пакетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает пакет по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RentalPackage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(packageColumns...).
		From("rental_packages").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var pkg domain.RentalPackage
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.BasePricePerDay,
		&pkg.MaxConcurrentReservations,
		&pkg.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan package: %v", ErrScanRow, err)
	}

	pkg.CreatedAt = createdAt.Time
	pkg.UpdatedAt = updatedAt.Time

	return &pkg, nil
}

// ListActive возвращает все активные пакеты
func (r *Repository) ListActive(ctx context.Context) ([]*domain.RentalPackage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(packageColumns...).
		From("rental_packages").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	packages := make([]*domain.RentalPackage, 0)
	for rows.Next() {
		var pkg domain.RentalPackage
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&pkg.ID,
			&pkg.Name,
			&pkg.BasePricePerDay,
			&pkg.MaxConcurrentReservations,
			&pkg.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}

		pkg.CreatedAt = createdAt.Time
		pkg.UpdatedAt = updatedAt.Time
		packages = append(packages, &pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return packages, nil
}

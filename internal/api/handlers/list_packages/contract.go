package list_packages

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

type PackageRepository interface {
	ListActive(ctx context.Context) ([]*domain.RentalPackage, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

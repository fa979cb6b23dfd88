package rentalpackage

import "errors"

var (
	// ErrPackageNotFound возвращается, когда пакет не найден
	ErrPackageNotFound = errors.New("rentalpackage.repository: package not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rentalpackage.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rentalpackage.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rentalpackage.repository: failed to scan row")
)

package datecapacity

import "errors"

var (
	// ErrRowNotFound возвращается, когда строки индекса для месяца нет
	ErrRowNotFound = errors.New("datecapacity.repository: index row not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("datecapacity.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("datecapacity.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("datecapacity.repository: failed to scan row")
)

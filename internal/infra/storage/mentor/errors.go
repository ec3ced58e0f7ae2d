package mentor

import "errors"

var (
	// ErrProfileNotFound возвращается, когда у ментора нет профиля доступности
	ErrProfileNotFound = errors.New("mentor.repository: mentor profile not found")

	// ErrVersionConflict возвращается, когда профиль был изменен параллельно
	ErrVersionConflict = errors.New("mentor.repository: profile version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("mentor.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("mentor.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("mentor.repository: failed to scan row")
)

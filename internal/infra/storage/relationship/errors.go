package relationship

import "errors"

var (
	// ErrRelationshipNotFound возвращается, когда связь не найдена
	ErrRelationshipNotFound = errors.New("relationship.repository: relationship not found")

	// ErrAlreadyExists возвращается, когда у пары уже есть открытая связь
	ErrAlreadyExists = errors.New("relationship.repository: open relationship already exists")

	// ErrConcurrentUpdate возвращается, когда статус связи изменился с момента чтения
	ErrConcurrentUpdate = errors.New("relationship.repository: relationship was changed concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("relationship.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("relationship.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("relationship.repository: failed to scan row")
)

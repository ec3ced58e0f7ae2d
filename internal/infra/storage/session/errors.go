package session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("session.repository: session not found")

	// ErrConcurrentUpdate возвращается, когда статус сессии изменился с момента чтения
	ErrConcurrentUpdate = errors.New("session.repository: session was changed concurrently")

	// ErrFeedbackAlreadySaved возвращается, когда отзыв этой стороны уже сохранен
	ErrFeedbackAlreadySaved = errors.New("session.repository: feedback already saved")

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("session.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("session.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("session.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("session.repository: failed to scan row")
)

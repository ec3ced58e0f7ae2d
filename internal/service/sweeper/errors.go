package sweeper

import "errors"

var (
	// ErrInternal возвращается, когда не удалось выбрать кандидатов
	ErrInternal = errors.New("sweeper: internal error")
)

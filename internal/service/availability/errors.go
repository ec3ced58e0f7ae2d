package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

var (
	// ErrProfileNotFound возвращается, когда у ментора еще нет профиля доступности
	ErrProfileNotFound = fmt.Errorf("%w: availability: mentor profile not found", domain.ErrNotFound)

	// ErrRelationshipNotFound возвращается, когда связь не найдена
	ErrRelationshipNotFound = fmt.Errorf("%w: availability: relationship not found", domain.ErrNotFound)

	// ErrUserNotFound возвращается, когда участник не найден в каталоге
	ErrUserNotFound = fmt.Errorf("%w: availability: user not found", domain.ErrNotFound)

	// ErrNotMentor возвращается, когда пользователь не может быть ментором
	ErrNotMentor = fmt.Errorf("%w: availability: user cannot act as a mentor", domain.ErrBusinessRule)

	// ErrAccessDenied возвращается, когда пользователь не вправе менять запись
	ErrAccessDenied = errors.New("availability: access denied")

	// ErrVersionConflict возвращается, когда профиль изменен параллельно
	ErrVersionConflict = fmt.Errorf("%w: availability: profile was changed concurrently", domain.ErrConflict)

	// ErrRelationshipExists возвращается, когда у пары уже есть открытая связь
	ErrRelationshipExists = fmt.Errorf("%w: availability: open relationship already exists", domain.ErrConflict)

	// ErrConcurrentModification возвращается, когда статус связи изменен параллельно
	ErrConcurrentModification = fmt.Errorf("%w: availability: relationship was changed concurrently", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)

package create_session

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

var (
	// ErrMentorNotFound возвращается, когда ментор не найден
	ErrMentorNotFound = fmt.Errorf("%w: create_session: mentor not found", domain.ErrNotFound)

	// ErrMenteeNotFound возвращается, когда менти не найден
	ErrMenteeNotFound = fmt.Errorf("%w: create_session: mentee not found", domain.ErrNotFound)

	// ErrNotMentor возвращается, когда пользователь не может быть ментором
	ErrNotMentor = fmt.Errorf("%w: create_session: user is not a mentor", domain.ErrBusinessRule)

	// ErrMenteeNotAssigned возвращается, когда у пары нет активной связи
	ErrMenteeNotAssigned = fmt.Errorf("%w: create_session: mentee is not assigned to the mentor", domain.ErrBusinessRule)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_session: internal error")
)

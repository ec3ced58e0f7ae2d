package userservice

import "github.com/google/uuid"

// Role роль пользователя портала
type Role string

const (
	RoleMentor       Role = "mentor"
	RoleEntrepreneur Role = "entrepreneur"
	RoleAdmin        Role = "admin"
)

// User модель пользователя из UserService
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"` // пустая роль означает, что каталог роли не знает
}

// CanMentor пользователь может вести сессии как ментор.
// Пользователь без известной роли не отклоняется.
func (u *User) CanMentor() bool {
	return u.Role == "" || u.Role == RoleMentor || u.Role == RoleAdmin
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

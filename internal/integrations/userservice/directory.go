package userservice

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// StaticDirectory каталог пользователей в памяти (тесты, локальный запуск)
type StaticDirectory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

func NewStaticDirectory(users ...User) *StaticDirectory {
	d := &StaticDirectory{users: make(map[uuid.UUID]User, len(users))}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *StaticDirectory) Add(u User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *StaticDirectory) GetUser(_ context.Context, userID uuid.UUID) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// PermissiveDirectory считает существующим любого пользователя с ненулевым ID.
// Используется, когда адрес UserService не настроен.
type PermissiveDirectory struct{}

func (PermissiveDirectory) GetUser(_ context.Context, userID uuid.UUID) (*User, error) {
	if userID == uuid.Nil {
		return nil, ErrUserNotFound
	}
	return &User{ID: userID}, nil
}

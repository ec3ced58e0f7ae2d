package notify

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification запись входящих уведомлений пользователя
type Notification struct {
	ID        uuid.UUID      `gorm:"primaryKey"`
	UserID    uuid.UUID      `gorm:"not null;index"`
	Type      string         `gorm:"size:64;not null"`
	Title     string         `gorm:"size:255;not null"`
	Message   string         `gorm:"type:text"`
	Data      datatypes.JSON
	CreatedAt time.Time      `gorm:"not null"`
	ReadAt    *time.Time
}

func (Notification) TableName() string {
	return "notifications"
}

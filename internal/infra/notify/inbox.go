// Package notify хранилище входящих уведомлений. Доставка по каналам (email, push)
// читает отсюда и в этот сервис не входит.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

const defaultListLimit = 50

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Inbox struct {
	db     *gorm.DB
	now    func() time.Time
	logger Logger
}

func NewInbox(db *gorm.DB, logger Logger) *Inbox {
	return &Inbox{db: db, now: time.Now, logger: logger}
}

// Migrate создает таблицу (sqlite и локальный запуск; в PostgreSQL схема из migrations/)
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Notification{})
}

// Notify сохраняет уведомление во входящие пользователя
func (i *Inbox) Notify(ctx context.Context, n domain.Notification) error {
	data, err := encode(n.Data)
	if err != nil {
		return err
	}

	row := &Notification{
		ID:        uuid.New(),
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Data:      data,
		CreatedAt: i.now().UTC(),
	}
	if err := i.db.WithContext(ctx).Create(row).Error; err != nil {
		i.logger.Error("Notify: failed to store notification for user=%s: %v", n.UserID, err)
		return fmt.Errorf("%w: Notify - %v", ErrExecQuery, err)
	}

	i.logger.Info("Notify: user=%s, type=%s, id=%s", n.UserID, n.Type, row.ID)
	return nil
}

// ListForUser уведомления пользователя, новые первыми
func (i *Inbox) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := i.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var rows []Notification
	if err := query.Order("created_at DESC").Order("id").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: ListForUser - %v", ErrExecQuery, err)
	}
	return rows, nil
}

// MarkRead отмечает уведомление прочитанным. Чужое уведомление не найдено.
func (i *Inbox) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	var row Notification
	err := i.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("%w: MarkRead - %v", ErrExecQuery, err)
	}
	if row.ReadAt != nil {
		return nil
	}

	if err := i.db.WithContext(ctx).Model(&row).Update("read_at", i.now().UTC()).Error; err != nil {
		return fmt.Errorf("%w: MarkRead - %v", ErrExecQuery, err)
	}
	return nil
}

// DecodeData разбирает поле Data
func (n *Notification) DecodeData() (map[string]interface{}, error) {
	if len(n.Data) == 0 {
		return nil, nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(n.Data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeData, err)
	}
	return out, nil
}

func encode(data map[string]interface{}) (datatypes.JSON, error) {
	if len(data) == 0 {
		return datatypes.JSON("{}"), nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeData, err)
	}
	return datatypes.JSON(raw), nil
}

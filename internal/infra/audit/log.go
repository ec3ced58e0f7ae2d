// Package audit журнал аудита на gorm. Записи только добавляются.
package audit

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

var (
	ErrEncodeMetadata = errors.New("audit: failed to encode metadata")
	ErrExecQuery      = errors.New("audit: failed to execute query")
)

const defaultListLimit = 100

// Record строка журнала. UserID = uuid.Nil для системных действий.
type Record struct {
	ID          uuid.UUID `gorm:"primaryKey"`
	UserID      uuid.UUID `gorm:"not null;index"`
	Action      string    `gorm:"size:64;not null;index"`
	Description string    `gorm:"type:text"`
	Metadata    datatypes.JSON
	CreatedAt   time.Time `gorm:"not null;index"`
}

func (Record) TableName() string {
	return "audit_log"
}

// Filter параметры выборки, пустые поля не фильтруют
type Filter struct {
	UserID *uuid.UUID
	Action string
	Since  *time.Time
	Limit  int
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Log struct {
	db     *gorm.DB
	now    func() time.Time
	logger Logger
}

func NewLog(db *gorm.DB, logger Logger) *Log {
	return &Log{db: db, now: time.Now, logger: logger}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Record{})
}

func (l *Log) Record(ctx context.Context, entry domain.AuditEntry) error {
	metadata := datatypes.JSON("{}")
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeMetadata, err)
		}
		metadata = raw
	}

	row := &Record{
		ID:          uuid.New(),
		UserID:      entry.UserID,
		Action:      entry.Action,
		Description: entry.Description,
		Metadata:    metadata,
		CreatedAt:   l.now().UTC(),
	}
	if err := l.db.WithContext(ctx).Create(row).Error; err != nil {
		l.logger.Error("Record: failed to write audit action=%s: %v", entry.Action, err)
		return fmt.Errorf("%w: Record - %v", ErrExecQuery, err)
	}
	return nil
}

// List записи журнала, новые первыми
func (l *Log) List(ctx context.Context, filter Filter) ([]Record, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := l.db.WithContext(ctx).Model(&Record{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", filter.Since.UTC())
	}

	var rows []Record
	if err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: List - %v", ErrExecQuery, err)
	}
	return rows, nil
}

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	applogger "github.com/m04kA/SMC-MentorshipService/pkg/logger"
)

var start = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func newLog(t *testing.T) *Log {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))

	l := NewLog(db, applogger.NewNop())
	clock := start
	l.now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}
	return l
}

func TestAuditLogRecordAndFilter(t *testing.T) {
	l := newLog(t)
	ctx := context.Background()
	mentor := uuid.New()

	require.NoError(t, l.Record(ctx, domain.AuditEntry{
		UserID:      mentor,
		Action:      domain.AuditSessionCreated,
		Description: "session created",
		Metadata:    map[string]interface{}{"sessionId": "s-1"},
	}))
	require.NoError(t, l.Record(ctx, domain.AuditEntry{UserID: uuid.Nil, Action: domain.AuditSessionNoShow, Description: "expiry sweep"}))
	require.NoError(t, l.Record(ctx, domain.AuditEntry{UserID: mentor, Action: domain.AuditAvailabilityUpdated}))

	all, err := l.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.AuditAvailabilityUpdated, all[0].Action)

	byMentor, err := l.List(ctx, Filter{UserID: &mentor})
	require.NoError(t, err)
	assert.Len(t, byMentor, 2)

	system, err := l.List(ctx, Filter{UserID: &uuid.Nil})
	require.NoError(t, err)
	require.Len(t, system, 1)
	assert.Equal(t, domain.AuditSessionNoShow, system[0].Action)

	created, err := l.List(ctx, Filter{Action: domain.AuditSessionCreated})
	require.NoError(t, err)
	require.Len(t, created, 1)
	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(created[0].Metadata, &meta))
	assert.Equal(t, "s-1", meta["sessionId"])

	since := start.Add(2 * time.Hour)
	recent, err := l.List(ctx, Filter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

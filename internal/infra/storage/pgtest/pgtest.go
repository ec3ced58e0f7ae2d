// Package pgtest подключение к тестовой PostgreSQL для интеграционных тестов репозиториев.
// Без DB_URL тесты пропускаются.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MentorshipService/pkg/dbmetrics"
)

var (
	once  sync.Once
	db    *sql.DB
	dbErr error
)

// Open возвращает обернутое соединение со схемой из migrations/000001_init.up.sql
func Open(t *testing.T) *dbmetrics.DB {
	t.Helper()

	once.Do(func() {
		root := moduleRoot()
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join(root, ".env"))

		dsn := os.Getenv("DB_URL")
		if dsn == "" {
			dbErr = fmt.Errorf("DB_URL is not set")
			return
		}

		db, dbErr = sql.Open("postgres", dsn)
		if dbErr != nil {
			return
		}
		if dbErr = db.PingContext(context.Background()); dbErr != nil {
			return
		}

		schema, err := os.ReadFile(filepath.Join(root, "migrations", "000001_init.up.sql"))
		if err != nil {
			dbErr = fmt.Errorf("read schema: %w", err)
			return
		}
		if _, err := db.ExecContext(context.Background(), string(schema)); err != nil {
			dbErr = fmt.Errorf("apply schema: %w", err)
		}
	})

	if dbErr != nil {
		t.Skipf("skipping integration test: %v", dbErr)
	}
	return dbmetrics.Wrap(db, nil)
}

// Cleanup удаляет строки всех таблиц, относящиеся к userIDs, после теста
func Cleanup(t *testing.T, userIDs ...uuid.UUID) {
	t.Helper()

	t.Cleanup(func() {
		ctx := context.Background()
		statements := []string{
			"DELETE FROM mentorship_sessions WHERE mentor_id = ANY($1::uuid[]) OR mentee_id = ANY($1::uuid[])",
			"DELETE FROM mentorship_relationships WHERE mentor_id = ANY($1::uuid[]) OR mentee_id = ANY($1::uuid[])",
			"DELETE FROM mentor_profiles WHERE mentor_id = ANY($1::uuid[])",
			"DELETE FROM participant_stats WHERE user_id = ANY($1::uuid[])",
		}
		ids := make([]string, 0, len(userIDs))
		for _, id := range userIDs {
			ids = append(ids, id.String())
		}
		for _, stmt := range statements {
			if _, err := db.ExecContext(ctx, stmt, pq.Array(ids)); err != nil {
				t.Errorf("cleanup failed: %v", err)
			}
		}
	})
}

// moduleRoot корень модуля по расположению этого файла
func moduleRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..")
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/m04kA/SMC-MentorshipService/internal/api"
	"github.com/m04kA/SMC-MentorshipService/internal/api/handlers"
	"github.com/m04kA/SMC-MentorshipService/internal/api/middleware"
	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/notify"
	"github.com/m04kA/SMC-MentorshipService/internal/service/scheduling"
	"github.com/m04kA/SMC-MentorshipService/internal/usecase/usecasetest"
)

type fixture struct {
	env    *usecasetest.Env
	inbox  *notify.Inbox
	router *mux.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := usecasetest.NewEnv()

	engine := scheduling.Build(scheduling.Dependencies{
		Sessions:      env.Store.Sessions(),
		Mentors:       env.Store.Mentors(),
		Stats:         env.Store.Stats(),
		Relationships: env.Store.Relationships(),
		Users:         env.Users,
		TxManager:     env.Store.TxManager(),
		Dispatcher:    env.Dispatcher,
		Rules:         env.Rules,
		Logger:        env.Logger,
	})
	engine.SetTimeProvider(env.Clock)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, notify.Migrate(db))
	inbox := notify.NewInbox(db, env.Logger)

	return &fixture{
		env:   env,
		inbox: inbox,
		router: api.NewRouter(api.RouterConfig{
			Engine: engine,
			Inbox:  inbox,
			Logger: env.Logger,
		}),
	}
}

func (f *fixture) do(t *testing.T, method, path string, user uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if user != uuid.Nil {
		req.Header.Set(middleware.UserIDHeader, user.String())
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestSessionRoutes(t *testing.T) {
	f := newFixture(t)
	profile := domain.DefaultMentorProfile(f.env.Mentor())
	profile.Weekly.Monday = domain.DayAvailability{Available: true, Start: "09:00", End: "12:00"}
	f.env.Profile(t, profile)
	mentor := profile.MentorID
	mentee := f.env.Mentee()
	f.env.Relate(t, mentor, mentee)

	// слоты доступны без заголовка
	rec := f.do(t, http.MethodGet, "/api/v1/mentors/"+mentor.String()+"/available-slots?start=2026-10-19&duration=60", uuid.Nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var slots struct {
		Slots []struct {
			Start string `json:"start"`
		} `json:"slots"`
	}
	decode(t, rec, &slots)
	require.NotEmpty(t, slots.Slots)
	assert.Equal(t, usecasetest.At(9, 0).Format(time.RFC3339), slots.Slots[0].Start)

	create := map[string]interface{}{
		"mentorId":        mentor,
		"menteeId":        mentee,
		"title":           "Unit economics",
		"scheduledAt":     usecasetest.At(9, 0).Format(time.RFC3339),
		"durationMinutes": 60,
	}

	rec = f.do(t, http.MethodPost, "/api/v1/sessions", uuid.Nil, create)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/sessions", mentee, create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Session struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		} `json:"session"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "scheduled", created.Session.Status)
	sessionPath := "/api/v1/sessions/" + created.Session.ID.String()

	// то же время занято
	rec = f.do(t, http.MethodPost, "/api/v1/sessions", mentee, create)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var conflict handlers.ErrorResponse
	decode(t, rec, &conflict)
	assert.Equal(t, "conflict", conflict.Kind)

	rec = f.do(t, http.MethodGet, sessionPath, uuid.New(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, sessionPath, mentee, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/sessions/not-a-uuid", mentee, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// из scheduled сразу в completed нельзя
	rec = f.do(t, http.MethodPatch, sessionPath+"/status", mentor, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var rejected handlers.ErrorResponse
	decode(t, rec, &rejected)
	assert.Equal(t, "business_rule", rejected.Kind)

	rec = f.do(t, http.MethodPatch, sessionPath+"/status", mentor, map[string]string{"status": "cancelled", "reason": "sick"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var changed struct {
		PreviousStatus string `json:"previousStatus"`
	}
	decode(t, rec, &changed)
	assert.Equal(t, "scheduled", changed.PreviousStatus)

	rec = f.do(t, http.MethodGet, "/api/v1/users/"+mentee.String()+"/sessions?status=cancelled", mentee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	assert.Equal(t, 1, list.Total)

	rec = f.do(t, http.MethodGet, "/api/v1/users/"+mentee.String()+"/sessions", mentor, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	f.env.Dispatcher.Wait()
}

func TestUnknownFieldsAreRejected(t *testing.T) {
	f := newFixture(t)
	mentor, mentee := f.env.Pair(t)

	rec := f.do(t, http.MethodPost, "/api/v1/sessions", mentee, map[string]interface{}{
		"mentorId": mentor,
		"menteeId": mentee,
		"title":    "x",
		"room":     "42",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotificationRoutes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	require.NoError(t, f.inbox.Notify(ctx, domain.Notification{
		UserID:  owner,
		Type:    domain.NotificationSessionCreated,
		Title:   "Session booked",
		Message: "See you on Monday",
	}))

	listPath := "/api/v1/users/" + owner.String() + "/notifications"
	rec := f.do(t, http.MethodGet, listPath, uuid.New(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, listPath+"?unread=true", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Notifications []struct {
			ID uuid.UUID `json:"id"`
		} `json:"notifications"`
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	require.Equal(t, 1, list.Total)

	readPath := "/api/v1/notifications/" + list.Notifications[0].ID.String() + "/read"
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPost, readPath, owner, nil).Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPost, readPath, owner, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, readPath, uuid.New(), nil).Code)

	rec = f.do(t, http.MethodGet, listPath+"?unread=true", owner, nil)
	decode(t, rec, &list)
	assert.Equal(t, 0, list.Total)
}

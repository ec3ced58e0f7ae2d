package googlecalendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MentorshipService/pkg/logger"
)

type fakeAPI struct {
	mu      sync.Mutex
	events  map[string]*calendar.Event
	methods []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.methods = append(f.methods, r.Method)

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	id := parts[len(parts)-1]
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost:
		var e calendar.Event
		_ = json.NewDecoder(r.Body).Decode(&e)
		e.Id = "evt-1"
		e.HangoutLink = "https://meet.google.com/abc-defg-hij"
		f.events[e.Id] = &e
		_ = json.NewEncoder(w).Encode(&e)
	case f.events[id] == nil:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Not Found"}}`))
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(f.events[id])
	case r.Method == http.MethodPatch:
		var patch calendar.Event
		_ = json.NewDecoder(r.Body).Decode(&patch)
		e := f.events[id]
		if patch.Summary != "" {
			e.Summary = patch.Summary
		}
		if patch.Start != nil {
			e.Start, e.End = patch.Start, patch.End
		}
		_ = json.NewEncoder(w).Encode(e)
	case r.Method == http.MethodDelete:
		delete(f.events, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func newTestClient(t *testing.T, users UserDirectory) (*Client, *fakeAPI) {
	api := &fakeAPI{events: map[string]*calendar.Event{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), "", users, logger.NewNop(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return c, api
}

func TestClientEventLifecycle(t *testing.T) {
	mentor, mentee := uuid.New(), uuid.New()
	users := userservice.NewStaticDirectory(
		userservice.User{ID: mentor, Name: "Mentor", Email: "mentor@example.com"},
		userservice.User{ID: mentee, Name: "Founder"},
	)
	c, api := newTestClient(t, users)
	ctx := context.Background()
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	sessionID := uuid.New()

	ref, err := c.CreateEvent(ctx, domain.CalendarEvent{
		SessionID:       sessionID,
		Title:           "Pitch review",
		Start:           start,
		DurationMinutes: 60,
		Attendees:       []uuid.UUID{mentor, mentee, uuid.New()},
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", ref.EventID)
	assert.NotEmpty(t, ref.JoinLink)

	stored := api.events["evt-1"]
	require.Len(t, stored.Attendees, 1, "only users with email are invited")
	assert.Equal(t, "mentor@example.com", stored.Attendees[0].Email)
	assert.Equal(t, "2026-10-19T10:00:00Z", stored.End.DateTime)
	assert.Equal(t, sessionID.String(), stored.ExtendedProperties.Private[privateSessionKey])

	moved := start.Add(24 * time.Hour)
	require.NoError(t, c.UpdateEvent(ctx, "evt-1", domain.CalendarEventUpdate{Start: &moved}))
	assert.Equal(t, "2026-10-20T09:00:00Z", api.events["evt-1"].Start.DateTime)
	assert.Equal(t, "2026-10-20T10:00:00Z", api.events["evt-1"].End.DateTime, "duration kept")

	require.NoError(t, c.CancelEvent(ctx, "evt-1"))
	require.NoError(t, c.CancelEvent(ctx, "evt-1"), "already removed")
	assert.Equal(t, []string{"POST", "GET", "PATCH", "DELETE", "DELETE"}, api.methods)
}

func TestClientUpdateMissingEvent(t *testing.T) {
	c, _ := newTestClient(t, userservice.NewStaticDirectory())
	title := "Renamed"
	minutes := 30

	err := c.UpdateEvent(context.Background(), "missing", domain.CalendarEventUpdate{Title: &title, DurationMinutes: &minutes})
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestCredentialsOptionRejectsGarbage(t *testing.T) {
	_, err := CredentialsOption(context.Background(), []byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

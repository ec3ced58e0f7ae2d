package effects

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects/effectstest"
	"github.com/m04kA/SMC-MentorshipService/pkg/logger"
)

func newTestDispatcher(c Collaborators, now time.Time) *Dispatcher {
	d := NewDispatcher(c, time.Second, nil, logger.NewNop())
	d.SetTimeProvider(effectstest.NewClock(now))
	return d
}

func TestDispatcherCreatesEventAndStoresRef(t *testing.T) {
	calendar, refs := effectstest.NewCalendar(), effectstest.NewRefs()
	d := newTestDispatcher(Collaborators{Calendar: calendar, Refs: refs}, time.Now())
	sessionID := uuid.New()

	d.Dispatch(context.Background(), []Effect{CreateCalendarEvent{Event: domain.CalendarEvent{SessionID: sessionID, Title: "Intro"}}})
	d.Wait()

	require.Equal(t, 1, calendar.CreatedCount())
	assert.Equal(t, "evt-"+sessionID.String(), refs.Calendar[sessionID].EventID)
}

func TestDispatcherContinuesAfterFailure(t *testing.T) {
	calendar := effectstest.NewCalendar()
	calendar.Fail = true
	notifier := effectstest.NewNotifier()
	d := newTestDispatcher(Collaborators{Calendar: calendar, Notifier: notifier}, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, []Effect{
		CancelCalendarEvent{EventID: "evt-1"},
		Notify{Notification: domain.Notification{UserID: uuid.New(), Type: domain.NotificationStatusChanged}},
	})
	cancel()
	d.Wait()

	assert.Len(t, notifier.Sent(), 1)
}

func TestDispatcherSchedulesOnlyFutureReminders(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	reminders, refs := effectstest.NewReminders(), effectstest.NewRefs()
	d := newTestDispatcher(Collaborators{Reminders: reminders, Refs: refs}, now)
	sessionID := uuid.New()

	// до начала 12 часов, напоминание за сутки уже в прошлом
	d.Dispatch(context.Background(), []Effect{ScheduleReminders{SessionID: sessionID, StartsAt: now.Add(12 * time.Hour)}})
	d.Wait()

	assert.Equal(t, []time.Time{now.Add(11 * time.Hour)}, reminders.ActiveTimes())
	assert.Len(t, refs.Handles[sessionID], 1)
}

func TestDispatcherSkipsMissingCollaborators(t *testing.T) {
	d := newTestDispatcher(Collaborators{}, time.Now())
	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), []Effect{
			CreateCalendarEvent{},
			Notify{},
			RecordAudit{},
			CancelReminders{Handles: []string{"x"}},
		})
		d.Wait()
	})
}

func TestForCancelledSession(t *testing.T) {
	eventID := "evt-1"
	s := &domain.Session{ID: uuid.New(), CalendarEventID: &eventID, ReminderHandles: []string{"a", "b"}}

	out := ForCancelledSession(s)

	require.Len(t, out, 2)
	assert.Equal(t, CancelCalendarEvent{SessionID: s.ID, EventID: eventID}, out[0])
	assert.Equal(t, []string{"a", "b"}, out[1].(CancelReminders).Handles)

	// ссылок еще нет: эффекты все равно выпускаются, диспетчер дочитает их из сессии
	bare := &domain.Session{ID: uuid.New()}
	out = ForCancelledSession(bare)
	require.Len(t, out, 2)
	assert.Equal(t, CancelCalendarEvent{SessionID: bare.ID}, out[0])
}

// gatedCalendar держит CreateEvent до закрытия release
type gatedCalendar struct {
	*effectstest.Calendar
	release chan struct{}
}

func (c *gatedCalendar) CreateEvent(ctx context.Context, event domain.CalendarEvent) (*domain.CalendarEventRef, error) {
	<-c.release
	return c.Calendar.CreateEvent(ctx, event)
}

type inFlight struct {
	dispatcher *Dispatcher
	calendar   *gatedCalendar
	reminders  *effectstest.Reminders
	refs       *effectstest.Refs
	session    *domain.Session
	now        time.Time
}

// startCreation отправляет пачку создания сессии, которая висит на календаре
func startCreation(t *testing.T) *inFlight {
	t.Helper()
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	f := &inFlight{
		calendar:  &gatedCalendar{Calendar: effectstest.NewCalendar(), release: make(chan struct{})},
		reminders: effectstest.NewReminders(),
		refs:      effectstest.NewRefs(),
		now:       now,
	}
	f.dispatcher = newTestDispatcher(Collaborators{Calendar: f.calendar, Reminders: f.reminders, Refs: f.refs}, now)
	f.session = &domain.Session{
		ID:              uuid.New(),
		MentorID:        uuid.New(),
		MenteeID:        uuid.New(),
		Title:           "Go-to-market",
		ScheduledAt:     now.Add(72 * time.Hour),
		DurationMinutes: 60,
		Status:          domain.StatusScheduled,
	}
	f.refs.Put(f.session)

	f.dispatcher.Dispatch(context.Background(), []Effect{
		CreateCalendarEvent{Event: domain.CalendarEvent{SessionID: f.session.ID, Start: f.session.ScheduledAt}},
		ScheduleReminders{SessionID: f.session.ID, Recipients: f.session.Participants(), StartsAt: f.session.ScheduledAt},
	})
	return f
}

func TestDispatcherCancelDuringCreationWithdrawsEverything(t *testing.T) {
	f := startCreation(t)

	// отмена закоммичена до того, как создание завершилось
	cancelled := f.session.Clone()
	cancelled.Status = domain.StatusCancelled
	f.refs.Put(cancelled)
	f.dispatcher.Dispatch(context.Background(), ForCancelledSession(cancelled))

	close(f.calendar.release)
	f.dispatcher.Wait()

	eventID := "evt-" + f.session.ID.String()
	assert.Equal(t, 1, f.calendar.CreatedCount())
	assert.Equal(t, []string{eventID}, f.calendar.CancelledIDs())
	assert.Equal(t, 0, f.reminders.ActiveCount())
	assert.Empty(t, f.refs.HandlesOf(f.session.ID))
}

func TestDispatcherRescheduleDuringCreationKeepsNewReminders(t *testing.T) {
	f := startCreation(t)

	moved := f.session.Clone()
	moved.ScheduledAt = f.session.ScheduledAt.Add(48 * time.Hour)
	moved.Status = domain.StatusRescheduled
	f.refs.Put(moved)
	f.dispatcher.Dispatch(context.Background(), []Effect{
		UpdateCalendarEvent{SessionID: moved.ID, Update: domain.CalendarEventUpdate{Start: &moved.ScheduledAt}},
		CancelReminders{SessionID: moved.ID},
		ScheduleReminders{SessionID: moved.ID, Recipients: moved.Participants(), StartsAt: moved.ScheduledAt},
	})

	close(f.calendar.release)
	f.dispatcher.Wait()

	eventID := "evt-" + f.session.ID.String()
	require.Contains(t, f.calendar.Updated, eventID)
	assert.Equal(t, moved.ScheduledAt, *f.calendar.Updated[eventID].Start)
	assert.Empty(t, f.calendar.CancelledIDs())

	var want []time.Time
	for _, offset := range domain.ReminderOffsets {
		want = append(want, moved.ScheduledAt.Add(-offset))
	}
	assert.ElementsMatch(t, want, f.reminders.ActiveTimes())
	assert.Len(t, f.refs.HandlesOf(moved.ID), len(domain.ReminderOffsets))
}

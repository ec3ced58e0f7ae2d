package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/effects"
	"github.com/m04kA/SMC-MentorshipService/internal/effects/effectstest"
	"github.com/m04kA/SMC-MentorshipService/internal/infra/reminders"
	"github.com/m04kA/SMC-MentorshipService/pkg/logger"
)

// slowCalendar отвечает с задержкой, пачка остается в работе во время Close
type slowCalendar struct {
	*effectstest.Calendar
	delay time.Duration
}

func (c *slowCalendar) CreateEvent(ctx context.Context, event domain.CalendarEvent) (*domain.CalendarEventRef, error) {
	time.Sleep(c.delay)
	return c.Calendar.CreateEvent(ctx, event)
}

func TestCloseDrainsEffectsBeforeStoppingReminders(t *testing.T) {
	log := logger.NewNop()
	refs := effectstest.NewRefs()
	scheduler := reminders.NewScheduler(effectstest.NewNotifier(), time.Second, log)
	dispatcher := effects.NewDispatcher(effects.Collaborators{
		Calendar:  &slowCalendar{Calendar: effectstest.NewCalendar(), delay: 50 * time.Millisecond},
		Reminders: scheduler,
		Refs:      refs,
	}, time.Second, nil, log)

	a := &App{Reminders: scheduler, Dispatcher: dispatcher, stopCh: make(chan struct{}), log: log}

	session := &domain.Session{
		ID:          uuid.New(),
		MentorID:    uuid.New(),
		MenteeID:    uuid.New(),
		ScheduledAt: time.Now().Add(72 * time.Hour),
		Status:      domain.StatusScheduled,
	}
	refs.Put(session)
	dispatcher.Dispatch(context.Background(), []effects.Effect{
		effects.CreateCalendarEvent{Event: domain.CalendarEvent{SessionID: session.ID, Start: session.ScheduledAt}},
		effects.ScheduleReminders{SessionID: session.ID, Recipients: session.Participants(), StartsAt: session.ScheduledAt},
	})

	a.Close()

	// напоминания поставлены до остановки планировщика, затем сняты вместе с ним
	assert.Len(t, refs.HandlesOf(session.ID), len(domain.ReminderOffsets))
	assert.Equal(t, 0, scheduler.Pending())
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPendingFeedbackFilterMatches(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	filter := PendingFeedbackFilter{
		CompletedBefore: now.Add(-24 * time.Hour),
		RemindedBefore:  now.Add(-48 * time.Hour),
		MaxReminders:    3,
	}

	completedAt := now.Add(-72 * time.Hour)
	pending := func() *Session {
		at := completedAt
		return &Session{Status: StatusCompleted, CompletedAt: &at, MentorFeedbackReceived: true}
	}

	assert.True(t, filter.Matches(pending()))

	s := pending()
	s.MenteeFeedbackReceived = true
	assert.False(t, filter.Matches(s), "both sides submitted")

	s = pending()
	s.FeedbackComplete = true
	assert.False(t, filter.Matches(s))

	s = pending()
	s.Status = StatusNoShow
	assert.False(t, filter.Matches(s))

	s = pending()
	recentlyCompleted := now.Add(-time.Hour)
	s.CompletedAt = &recentlyCompleted
	assert.False(t, filter.Matches(s), "completed inside the grace period")

	s = pending()
	s.FeedbackRemindersSent = 3
	assert.False(t, filter.Matches(s), "reminder cap reached")

	unlimited := filter
	unlimited.MaxReminders = 0
	assert.True(t, unlimited.Matches(s))

	s = pending()
	lastReminder := now.Add(-time.Hour)
	s.LastFeedbackReminderAt = &lastReminder
	assert.False(t, filter.Matches(s), "reminded inside the interval")

	lastReminder = filter.RemindedBefore
	assert.True(t, filter.Matches(s))
}

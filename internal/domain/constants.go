package domain

import "time"

// Default scheduling rules
const (
	DefaultMinAdvanceNoticeMinutes  = 60
	DefaultMinDurationMinutes       = 15
	DefaultMaxDurationMinutes       = 240
	DefaultDurationMinutes          = 60
	DefaultSlotStepMinutes          = 30
	DefaultMaxSlotRangeDays         = 62
	DefaultNoShowAfterHours         = 24
	DefaultFeedbackReminderAfter    = 24
	DefaultFeedbackReminderInterval = 24
	DefaultMaxFeedbackReminders     = 3
)

// Business validation constants
const (
	MaxTitleLength              = 200
	MaxDescriptionLength        = 2000
	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 500
	MaxObjectives               = 20
	MaxRecurrenceCount          = 52
	MaxBlockedDates             = 366
	MaxMetricsPeriodDays        = 365
	DefaultMetricsPeriodDays    = 30
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ReminderOffsets за сколько до начала сессии отправляются напоминания
var ReminderOffsets = []time.Duration{24 * time.Hour, time.Hour}

// SchedulingRules настраиваемые правила планирования
type SchedulingRules struct {
	MinAdvanceNotice          time.Duration
	MinDurationMinutes        int
	MaxDurationMinutes        int
	DefaultDurationMinutes    int
	SlotStep                  time.Duration
	MaxSlotRangeDays          int
	RequireActiveRelationship bool

	NoShowAfter              time.Duration
	FeedbackReminderAfter    time.Duration
	FeedbackReminderInterval time.Duration
	MaxFeedbackReminders     int // 0 = без ограничения
}

// DefaultSchedulingRules правила по умолчанию
func DefaultSchedulingRules() SchedulingRules {
	return SchedulingRules{
		MinAdvanceNotice:          DefaultMinAdvanceNoticeMinutes * time.Minute,
		MinDurationMinutes:        DefaultMinDurationMinutes,
		MaxDurationMinutes:        DefaultMaxDurationMinutes,
		DefaultDurationMinutes:    DefaultDurationMinutes,
		SlotStep:                  DefaultSlotStepMinutes * time.Minute,
		MaxSlotRangeDays:          DefaultMaxSlotRangeDays,
		RequireActiveRelationship: true,
		NoShowAfter:               DefaultNoShowAfterHours * time.Hour,
		FeedbackReminderAfter:     DefaultFeedbackReminderAfter * time.Hour,
		FeedbackReminderInterval:  DefaultFeedbackReminderInterval * time.Hour,
		MaxFeedbackReminders:      DefaultMaxFeedbackReminders,
	}
}

// ValidateDuration проверяет длительность сессии по правилам
func (r SchedulingRules) ValidateDuration(minutes int) error {
	if minutes < r.MinDurationMinutes || minutes > r.MaxDurationMinutes {
		return ErrDurationOutOfBounds
	}
	return nil
}

// ValidateNotice проверяет, что start не раньше now + MinAdvanceNotice
func (r SchedulingRules) ValidateNotice(start, now time.Time) error {
	if start.Before(now.Add(r.MinAdvanceNotice)) {
		return ErrTooLateToSchedule
	}
	return nil
}

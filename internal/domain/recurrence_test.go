package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecurrenceOccurrences(t *testing.T) {
	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		frequency RecurrenceFrequency
		expected  []time.Time
	}{
		{FrequencyWeekly, []time.Time{base.AddDate(0, 0, 7), base.AddDate(0, 0, 14), base.AddDate(0, 0, 21)}},
		{FrequencyBiweekly, []time.Time{base.AddDate(0, 0, 14), base.AddDate(0, 0, 28), base.AddDate(0, 0, 42)}},
		{FrequencyMonthly, []time.Time{base.AddDate(0, 0, 30), base.AddDate(0, 0, 60), base.AddDate(0, 0, 90)}},
	}

	for _, tc := range cases {
		p := RecurrencePattern{Frequency: tc.frequency, Count: 3}
		require.NoError(t, p.Validate())
		assert.Equal(t, tc.expected, p.Occurrences(base, time.UTC), tc.frequency)
	}
}

func TestRecurrenceValidate(t *testing.T) {
	assert.ErrorIs(t, (&RecurrencePattern{Frequency: "daily", Count: 2}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&RecurrencePattern{Frequency: FrequencyWeekly, Count: 0}).Validate(), ErrInvalidRecurrence)
	assert.ErrorIs(t, (&RecurrencePattern{Frequency: FrequencyWeekly, Count: MaxRecurrenceCount + 1}).Validate(), ErrInvalidRecurrence)
}

func TestMentorProfileValidate(t *testing.T) {
	rules := DefaultSchedulingRules()
	p := mondayMorningProfile()
	p.BlockedDates = []string{"2026-12-31"}
	require.NoError(t, p.Validate(rules))

	bad := *p
	bad.Weekly.Monday = DayAvailability{Available: true, Start: "12:00", End: "09:00"}
	assert.ErrorIs(t, bad.Validate(rules), ErrInvalidAvailability)

	bad = *p
	bad.Timezone = "Mars/Olympus"
	assert.ErrorIs(t, bad.Validate(rules), ErrValidation)

	bad = *p
	bad.BlockedDates = []string{"31.12.2026"}
	assert.ErrorIs(t, bad.Validate(rules), ErrInvalidAvailability)

	bad = *p
	bad.MaxSessionsPerDay = -1
	assert.ErrorIs(t, bad.Validate(rules), ErrInvalidAvailability)

	// недоступный день не проверяется
	bad = *p
	bad.Weekly.Sunday = DayAvailability{Available: false, Start: "garbage"}
	assert.NoError(t, bad.Validate(rules))
}

func TestFeedbackValidation(t *testing.T) {
	assert.NoError(t, (&MentorFeedback{Rating: 4, Outcome: OutcomeProgress}).Validate())
	assert.ErrorIs(t, (&MentorFeedback{Rating: 0}).Validate(), ErrInvalidRating)
	assert.ErrorIs(t, (&MentorFeedback{Rating: 4, Engagement: 6}).Validate(), ErrInvalidRating)
	assert.ErrorIs(t, (&MentorFeedback{Rating: 4, Outcome: "great"}).Validate(), ErrValidation)

	assert.NoError(t, (&MenteeFeedback{Rating: 5, Helpfulness: 5, Knowledge: 4}).Validate())
	assert.ErrorIs(t, (&MenteeFeedback{Rating: 6}).Validate(), ErrInvalidRating)

	assert.Equal(t, 4.5, CombinedRating(4, 5))
}

func TestErrorKinds(t *testing.T) {
	assert.Equal(t, ErrConflict, Kind(ErrSlotConflict))
	assert.Equal(t, ErrBusinessRule, Kind(ErrDailyCapacityReached))
	assert.Equal(t, ErrValidation, Kind(ErrTooLateToSchedule))
	assert.Nil(t, Kind(assert.AnError))
}

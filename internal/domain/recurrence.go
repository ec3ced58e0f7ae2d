package domain

import (
	"fmt"
	"time"
)

// RecurrenceFrequency частота повторения серии
type RecurrenceFrequency string

const (
	FrequencyWeekly   RecurrenceFrequency = "weekly"
	FrequencyBiweekly RecurrenceFrequency = "biweekly"
	FrequencyMonthly  RecurrenceFrequency = "monthly"
)

// monthlyStepDays "месяц" серии считается как 30 дней
const monthlyStepDays = 30

// RecurrencePattern Count follow-on occurrences after the base session
type RecurrencePattern struct {
	Frequency RecurrenceFrequency `json:"frequency"`
	Count     int                 `json:"count"`
}

func (p *RecurrencePattern) Validate() error {
	switch p.Frequency {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidRecurrence, p.Frequency)
	}
	if p.Count < 1 || p.Count > MaxRecurrenceCount {
		return fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRecurrence, MaxRecurrenceCount)
	}
	return nil
}

func (p *RecurrencePattern) stepDays() int {
	switch p.Frequency {
	case FrequencyBiweekly:
		return 14
	case FrequencyMonthly:
		return monthlyStepDays
	default:
		return 7
	}
}

// Occurrences даты последующих встреч. Шаг считается по календарю пояса loc,
// поэтому локальное время встречи сохраняется при переходе на летнее время.
func (p *RecurrencePattern) Occurrences(base time.Time, loc *time.Location) []time.Time {
	local := base.In(loc)
	step := p.stepDays()
	dates := make([]time.Time, 0, p.Count)
	for i := 1; i <= p.Count; i++ {
		dates = append(dates, local.AddDate(0, 0, step*i).UTC())
	}
	return dates
}

// SkippedOccurrence дата серии, которую не удалось забронировать
type SkippedOccurrence struct {
	ScheduledAt time.Time
	Reason      error // ErrSlotConflict, ErrDailyCapacityReached, ...
}

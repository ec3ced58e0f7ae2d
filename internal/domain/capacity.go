package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayBounds начало и конец календарного дня t в поясе loc
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// WeekBounds неделя с понедельника, содержащая t, в поясе loc
func WeekBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	dayStart, _ := DayBounds(t, loc)
	offset := (int(dayStart.Weekday()) + 6) % 7
	start := dayStart.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// CountActiveBetween активные сессии ментора, начинающиеся в [from, to).
// exclude не учитывается (переносимая сессия).
func CountActiveBetween(sessions []*Session, mentorID uuid.UUID, from, to time.Time, exclude *uuid.UUID) int {
	count := 0
	for _, s := range sessions {
		if exclude != nil && s.ID == *exclude {
			continue
		}
		if s.MentorID != mentorID || !s.IsActive() {
			continue
		}
		if !s.ScheduledAt.Before(from) && s.ScheduledAt.Before(to) {
			count++
		}
	}
	return count
}

// WithinDailyLimit количество активных сессий в день date меньше дневного лимита
func WithinDailyLimit(profile *MentorProfile, sessions []*Session, date time.Time, exclude *uuid.UUID) bool {
	if profile.MaxSessionsPerDay <= 0 {
		return true
	}
	from, to := DayBounds(date, profile.Location())
	return CountActiveBetween(sessions, profile.MentorID, from, to, exclude) < profile.MaxSessionsPerDay
}

// WithinWeeklyLimit аналогично по локальной неделе ментора
func WithinWeeklyLimit(profile *MentorProfile, sessions []*Session, date time.Time, exclude *uuid.UUID) bool {
	if profile.MaxSessionsPerWeek <= 0 {
		return true
	}
	from, to := WeekBounds(date, profile.Location())
	return CountActiveBetween(sessions, profile.MentorID, from, to, exclude) < profile.MaxSessionsPerWeek
}

// CheckCapacity возвращает ошибку лимита для новой сессии, начинающейся в start
func CheckCapacity(profile *MentorProfile, sessions []*Session, start time.Time, exclude *uuid.UUID) error {
	if !WithinDailyLimit(profile, sessions, start, exclude) {
		return ErrDailyCapacityReached
	}
	if !WithinWeeklyLimit(profile, sessions, start, exclude) {
		return ErrWeeklyCapacityReached
	}
	return nil
}

// AllocationWindow период, сессии которого нужны для проверки кандидата:
// локальная неделя ментора плюс сам интервал
func AllocationWindow(profile *MentorProfile, candidate Interval) (time.Time, time.Time) {
	from, to := WeekBounds(candidate.Start, profile.Location())
	if candidate.Start.Before(from) {
		from = candidate.Start
	}
	if candidate.End.After(to) {
		to = candidate.End
	}
	return from, to
}

// CheckAllocation пересечения проверяются раньше лимитов
func CheckAllocation(profile *MentorProfile, candidate Interval, menteeID uuid.UUID, sessions []*Session, exclude *uuid.UUID) error {
	if HasConflict(candidate, profile.MentorID, menteeID, sessions, exclude) {
		return ErrSlotConflict
	}
	return CheckCapacity(profile, sessions, candidate.Start, exclude)
}

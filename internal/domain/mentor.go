package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/pkg/types"
)

// DayAvailability рабочее окно ментора в конкретный день недели
type DayAvailability struct {
	Available bool             `json:"available"`
	Start     types.TimeString `json:"start,omitempty"`
	End       types.TimeString `json:"end,omitempty"`
}

// WeeklySchedule weekly availability of a mentor, times are in the mentor's timezone
type WeeklySchedule struct {
	Monday    DayAvailability `json:"monday"`
	Tuesday   DayAvailability `json:"tuesday"`
	Wednesday DayAvailability `json:"wednesday"`
	Thursday  DayAvailability `json:"thursday"`
	Friday    DayAvailability `json:"friday"`
	Saturday  DayAvailability `json:"saturday"`
	Sunday    DayAvailability `json:"sunday"`
}

// ForDay окно для дня недели
func (w WeeklySchedule) ForDay(day time.Weekday) DayAvailability {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

// MentorProfile availability calendar and capacity limits of a mentor.
// Изменяется только операцией обновления доступности, каждая запись увеличивает Version.
type MentorProfile struct {
	MentorID                 uuid.UUID
	Weekly                   WeeklySchedule
	Timezone                 string
	BlockedDates             []string // YYYY-MM-DD в поясе ментора
	MaxSessionsPerDay        int      // 0 = без ограничения
	MaxSessionsPerWeek       int      // 0 = без ограничения
	PreferredDurationMinutes int
	Version                  int
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// DefaultMentorProfile профиль без расписания и лимитов
func DefaultMentorProfile(mentorID uuid.UUID) *MentorProfile {
	return &MentorProfile{
		MentorID:                 mentorID,
		Timezone:                 "UTC",
		PreferredDurationMinutes: DefaultDurationMinutes,
	}
}

// Location часовой пояс ментора, UTC если пояс пуст или неизвестен
func (p *MentorProfile) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsBlocked true, если календарный день date (в поясе ментора) заблокирован
func (p *MentorProfile) IsBlocked(date time.Time) bool {
	day := date.In(p.Location()).Format(DateFormat)
	for _, blocked := range p.BlockedDates {
		if blocked == day {
			return true
		}
	}
	return false
}

// DurationOrDefault длительность запроса или предпочтительная ментора
func (p *MentorProfile) DurationOrDefault(requested int, rules SchedulingRules) int {
	if requested > 0 {
		return requested
	}
	if p.PreferredDurationMinutes > 0 {
		return p.PreferredDurationMinutes
	}
	return rules.DefaultDurationMinutes
}

// Validate проверяет расписание, пояс, даты и лимиты
func (p *MentorProfile) Validate(rules SchedulingRules) error {
	if p.MentorID == uuid.Nil {
		return fmt.Errorf("%w: mentor id is required", ErrInvalidAvailability)
	}
	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidAvailability, p.Timezone)
		}
	}

	days := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday}
	for _, day := range days {
		window := p.Weekly.ForDay(day)
		if !window.Available {
			continue
		}
		if err := window.Start.Validate(); err != nil {
			return fmt.Errorf("%w: %s start: %v", ErrInvalidAvailability, day, err)
		}
		if err := window.End.Validate(); err != nil {
			return fmt.Errorf("%w: %s end: %v", ErrInvalidAvailability, day, err)
		}
		if !window.Start.IsBefore(window.End) {
			return fmt.Errorf("%w: %s start must be before end", ErrInvalidAvailability, day)
		}
	}

	if len(p.BlockedDates) > MaxBlockedDates {
		return fmt.Errorf("%w: too many blocked dates", ErrInvalidAvailability)
	}
	for _, d := range p.BlockedDates {
		if _, err := time.Parse(DateFormat, d); err != nil {
			return fmt.Errorf("%w: blocked date %q", ErrInvalidAvailability, d)
		}
	}

	if p.MaxSessionsPerDay < 0 || p.MaxSessionsPerWeek < 0 {
		return fmt.Errorf("%w: session limits must not be negative", ErrInvalidAvailability)
	}
	if p.PreferredDurationMinutes != 0 {
		if err := rules.ValidateDuration(p.PreferredDurationMinutes); err != nil {
			return fmt.Errorf("%w: preferred duration %d", ErrInvalidAvailability, p.PreferredDurationMinutes)
		}
	}
	return nil
}

package domain

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/pkg/types"
)

// 2026-10-19 понедельник
var nextMonday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func mondayMorningProfile() *MentorProfile {
	p := DefaultMentorProfile(uuid.New())
	p.Weekly.Monday = DayAvailability{Available: true, Start: "09:00", End: "12:00"}
	return p
}

func slotStarts(slots []Slot) []string {
	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.Start.Format(TimeFormat))
	}
	return starts
}

func TestGenerateSlotsMondayMorning(t *testing.T) {
	slots := GenerateSlots(SlotQuery{
		Profile:         mondayMorningProfile(),
		From:            nextMonday,
		To:              nextMonday,
		DurationMinutes: 60,
		Step:            30 * time.Minute,
		Earliest:        time.Date(2026, 10, 14, 11, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, slotStarts(slots))
	for _, s := range slots {
		assert.Equal(t, 60, s.DurationMinutes)
		assert.Equal(t, time.Hour, s.End.Sub(s.Start))
	}
}

func TestGenerateSlotsSkipsBusyBlockedAndClosedDays(t *testing.T) {
	profile := mondayMorningProfile()
	profile.Weekly.Wednesday = DayAvailability{Available: true, Start: "14:00", End: "16:00"}
	profile.BlockedDates = []string{"2026-10-26"}

	busy := &Session{
		ID: uuid.New(), MentorID: profile.MentorID, MenteeID: uuid.New(),
		ScheduledAt:     nextMonday.Add(9*time.Hour + 30*time.Minute),
		DurationMinutes: 60,
		Status:          StatusScheduled,
	}

	slots := GenerateSlots(SlotQuery{
		Profile:         profile,
		From:            nextMonday,
		To:              nextMonday.AddDate(0, 0, 7),
		DurationMinutes: 60,
		Step:            30 * time.Minute,
		Sessions:        []*Session{busy},
	})

	var got []string
	for _, s := range slots {
		got = append(got, s.Start.Format("2006-01-02 15:04"))
		assert.False(t, s.Start.Before(busy.EndsAt()) && busy.ScheduledAt.Before(s.End), "slot overlaps busy session")
	}
	assert.Equal(t, []string{"2026-10-19 10:30", "2026-10-21 14:00", "2026-10-21 14:30"}, got)
}

func TestGenerateSlotsRespectsEarliest(t *testing.T) {
	slots := GenerateSlots(SlotQuery{
		Profile:         mondayMorningProfile(),
		From:            nextMonday,
		To:              nextMonday,
		DurationMinutes: 30,
		Step:            30 * time.Minute,
		Earliest:        nextMonday.Add(10 * time.Hour),
	})
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, slotStarts(slots))
}

func TestGenerateSlotsDropsDayAtCapacity(t *testing.T) {
	profile := mondayMorningProfile()
	profile.Weekly.Tuesday = DayAvailability{Available: true, Start: "09:00", End: "11:00"}
	profile.MaxSessionsPerDay = 1

	booked := &Session{
		ID: uuid.New(), MentorID: profile.MentorID, MenteeID: uuid.New(),
		ScheduledAt: nextMonday.Add(11 * time.Hour), DurationMinutes: 30, Status: StatusScheduled,
	}
	slots := GenerateSlots(SlotQuery{
		Profile:         profile,
		From:            nextMonday,
		To:              nextMonday.AddDate(0, 0, 1),
		DurationMinutes: 60,
		Step:            30 * time.Minute,
		Sessions:        []*Session{booked},
	})

	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.Equal(t, time.Tuesday, s.Start.Weekday())
	}
	// лимит не ограничивает число предлагаемых слотов в свободный день
	assert.Len(t, slots, 2)
}

func TestGenerateSlotsDropsWeekAtCapacity(t *testing.T) {
	profile := mondayMorningProfile()
	profile.MaxSessionsPerWeek = 1
	booked := &Session{
		ID: uuid.New(), MentorID: profile.MentorID, MenteeID: uuid.New(),
		ScheduledAt: nextMonday.AddDate(0, 0, 3).Add(15 * time.Hour), DurationMinutes: 30, Status: StatusScheduled,
	}

	slots := GenerateSlots(SlotQuery{
		Profile:         profile,
		From:            nextMonday,
		To:              nextMonday.AddDate(0, 0, 7),
		DurationMinutes: 60,
		Step:            30 * time.Minute,
		Sessions:        []*Session{booked},
	})

	require.Len(t, slots, 4)
	for _, s := range slots {
		assert.Equal(t, 26, s.Start.Day())
	}
}

func TestGenerateSlotsUsesMentorTimezone(t *testing.T) {
	profile := mondayMorningProfile()
	profile.Timezone = "Etc/GMT-3" // UTC+3

	slots := GenerateSlots(SlotQuery{
		Profile:         profile,
		From:            nextMonday,
		To:              nextMonday,
		DurationMinutes: 60,
		Step:            30 * time.Minute,
	})

	require.Len(t, slots, 4)
	assert.Equal(t, time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC), slots[0].Start)
}

// Случайные профили и занятость: ни один слот не пересекается с активной сессией
// ментора и не выпадает на день или неделю, где лимит уже исчерпан.
func TestGeneratedSlotsNeverOverlapActiveSessions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	zones := []string{"UTC", "Europe/Berlin", "America/New_York", "Asia/Tokyo"}
	statuses := []SessionStatus{StatusScheduled, StatusConfirmed, StatusRescheduled, StatusCancelled, StatusCompleted, StatusNoShow}
	durations := []int{15, 30, 45, 60, 90}

	for round := 0; round < 40; round++ {
		profile := DefaultMentorProfile(uuid.New())
		profile.Timezone = zones[rng.Intn(len(zones))]
		profile.MaxSessionsPerDay = rng.Intn(4)
		profile.MaxSessionsPerWeek = rng.Intn(8)
		for _, day := range []*DayAvailability{
			&profile.Weekly.Monday, &profile.Weekly.Tuesday, &profile.Weekly.Wednesday,
			&profile.Weekly.Thursday, &profile.Weekly.Friday,
		} {
			open := 7 + rng.Intn(4)
			closeAt := open + 2 + rng.Intn(6)
			*day = DayAvailability{
				Available: rng.Intn(5) > 0,
				Start:     types.TimeString(fmt.Sprintf("%02d:00", open)),
				End:       types.TimeString(fmt.Sprintf("%02d:30", closeAt)),
			}
		}

		var sessions []*Session
		for i := 0; i < rng.Intn(25); i++ {
			sessions = append(sessions, &Session{
				ID:              uuid.New(),
				MentorID:        profile.MentorID,
				MenteeID:        uuid.New(),
				ScheduledAt:     nextMonday.Add(time.Duration(rng.Intn(14*24*4)) * 15 * time.Minute),
				DurationMinutes: durations[rng.Intn(len(durations))],
				Status:          statuses[rng.Intn(len(statuses))],
			})
		}

		duration := durations[rng.Intn(len(durations))]
		slots := GenerateSlots(SlotQuery{
			Profile:         profile,
			From:            nextMonday,
			To:              nextMonday.AddDate(0, 0, 13),
			DurationMinutes: duration,
			Step:            30 * time.Minute,
			Sessions:        sessions,
		})

		for _, slot := range slots {
			require.Equal(t, time.Duration(duration)*time.Minute, slot.End.Sub(slot.Start))
			candidate := Interval{Start: slot.Start, End: slot.End}
			for _, s := range sessions {
				if s.IsActive() {
					assert.False(t, candidate.Overlaps(s.Interval()), "round %d: slot %s overlaps session at %s", round, slot.Start, s.ScheduledAt)
				}
			}
			assert.True(t, WithinDailyLimit(profile, sessions, slot.Start, nil), "round %d: slot %s on a full day", round, slot.Start)
			assert.True(t, WithinWeeklyLimit(profile, sessions, slot.Start, nil), "round %d: slot %s in a full week", round, slot.Start)
		}
	}
}

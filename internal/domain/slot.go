package domain

import (
	"time"

	"github.com/google/uuid"
)

// Slot candidate free interval offered for booking
type Slot struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
}

// SlotQuery входные данные генератора слотов
type SlotQuery struct {
	Profile         *MentorProfile
	From            time.Time // первый день диапазона (включительно)
	To              time.Time // последний день диапазона (включительно)
	DurationMinutes int
	Step            time.Duration
	Earliest        time.Time  // слоты раньше не предлагаются (минимальное время до начала)
	Sessions        []*Session // сессии ментора, покрывающие недели диапазона
}

// GenerateSlots перебирает дни диапазона в поясе ментора и шагает по рабочему окну дня.
// Слот попадает в результат, если заканчивается строго до конца окна и не пересекается
// с активными сессиями ментора. Дни и недели, уже достигшие лимита, пропускаются целиком.
func GenerateSlots(q SlotQuery) []Slot {
	if q.Profile == nil || q.DurationMinutes <= 0 || q.Step <= 0 {
		return nil
	}

	loc := q.Profile.Location()
	first, _ := DayBounds(q.From, loc)
	last, _ := DayBounds(q.To, loc)
	duration := time.Duration(q.DurationMinutes) * time.Minute

	slots := make([]Slot, 0)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if q.Profile.IsBlocked(day) {
			continue
		}

		window := q.Profile.Weekly.ForDay(day.Weekday())
		if !window.Available {
			continue
		}

		dayStart, err := window.Start.On(day, loc)
		if err != nil {
			continue
		}
		dayEnd, err := window.End.On(day, loc)
		if err != nil {
			continue
		}

		if !WithinDailyLimit(q.Profile, q.Sessions, dayStart, nil) ||
			!WithinWeeklyLimit(q.Profile, q.Sessions, dayStart, nil) {
			continue
		}

		for start := dayStart; start.Add(duration).Before(dayEnd); start = start.Add(q.Step) {
			if start.Before(q.Earliest) {
				continue
			}
			candidate := Interval{Start: start, End: start.Add(duration)}
			if HasConflict(candidate, q.Profile.MentorID, uuid.Nil, q.Sessions, nil) {
				continue
			}
			slots = append(slots, Slot{
				Start:           candidate.Start.UTC(),
				End:             candidate.End.UTC(),
				DurationMinutes: q.DurationMinutes,
			})
		}
	}
	return slots
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Interval half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, durationMinutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(durationMinutes) * time.Minute)}
}

// Overlaps a.start < b.end && b.start < a.end
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// HasConflict true, если кандидат пересекается с активной сессией того же ментора или менти.
// exclude позволяет не учитывать переносимую сессию. uuid.Nil в menteeID не совпадает ни с кем.
func HasConflict(candidate Interval, mentorID, menteeID uuid.UUID, sessions []*Session, exclude *uuid.UUID) bool {
	return len(FindConflicts(candidate, mentorID, menteeID, sessions, exclude)) > 0
}

// FindConflicts все активные сессии, мешающие кандидату
func FindConflicts(candidate Interval, mentorID, menteeID uuid.UUID, sessions []*Session, exclude *uuid.UUID) []*Session {
	var conflicts []*Session
	for _, s := range sessions {
		if exclude != nil && s.ID == *exclude {
			continue
		}
		if !s.IsActive() {
			continue
		}
		if !s.Involves(mentorID) && !s.Involves(menteeID) {
			continue
		}
		if candidate.Overlaps(s.Interval()) {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts
}

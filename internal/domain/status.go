package domain

import "fmt"

// SessionStatus lifecycle state of a mentorship session
type SessionStatus string

const (
	StatusScheduled   SessionStatus = "scheduled"
	StatusConfirmed   SessionStatus = "confirmed"
	StatusInProgress  SessionStatus = "in_progress"
	StatusRescheduled SessionStatus = "rescheduled"
	StatusCompleted   SessionStatus = "completed"
	StatusCancelled   SessionStatus = "cancelled"
	StatusNoShow      SessionStatus = "no_show"
)

// ActiveStatuses статусы, занимающие интервал времени ментора и менти
var ActiveStatuses = []SessionStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusRescheduled,
}

// ExpirableStatuses статусы, которые переводятся в NO_SHOW фоновой очисткой
var ExpirableStatuses = []SessionStatus{
	StatusScheduled,
	StatusRescheduled,
}

// ParseSessionStatus разбирает статус из внешнего ввода
func ParseSessionStatus(s string) (SessionStatus, error) {
	status := SessionStatus(s)
	switch status {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusRescheduled,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsActive returns true if the status occupies the schedule
func (s SessionStatus) IsActive() bool {
	for _, active := range ActiveStatuses {
		if s == active {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transition leaves the status
func (s SessionStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s SessionStatus) String() string {
	return string(s)
}

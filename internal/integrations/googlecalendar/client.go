// Package googlecalendar реализация календаря сессий на Google Calendar API v3.
package googlecalendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	"github.com/m04kA/SMC-MentorshipService/internal/integrations/userservice"
)

const (
	// privateSessionKey свойство события со ссылкой на сессию
	privateSessionKey = "mentorshipSessionId"
	meetSolution      = "hangoutsMeet"
)

var (
	ErrInvalidCredentials = errors.New("googlecalendar: invalid credentials")
	ErrRequestFailed      = errors.New("googlecalendar: request failed")
)

// UserDirectory источник email участников
type UserDirectory interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*userservice.User, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Client struct {
	service    *calendar.Service
	calendarID string
	users      UserDirectory
	logger     Logger
}

// CredentialsOption опция авторизации из JSON сервисного аккаунта
func CredentialsOption(ctx context.Context, credentialsJSON []byte) (option.ClientOption, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return option.WithTokenSource(oauth2.ReuseTokenSource(nil, creds.TokenSource)), nil
}

func NewClient(ctx context.Context, calendarID string, users UserDirectory, logger Logger, opts ...option.ClientOption) (*Client, error) {
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("googlecalendar: failed to create service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{service: service, calendarID: calendarID, users: users, logger: logger}, nil
}

// CreateEvent создает событие с видеовстречей и приглашает участников
func (c *Client) CreateEvent(ctx context.Context, event domain.CalendarEvent) (*domain.CalendarEventRef, error) {
	end := event.Start.Add(time.Duration(event.DurationMinutes) * time.Minute)
	body := &calendar.Event{
		Summary:     event.Title,
		Description: event.Description,
		Start:       dateTime(event.Start),
		End:         dateTime(end),
		Attendees:   c.attendees(ctx, event.Attendees),
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             event.SessionID.String(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: meetSolution},
			},
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{privateSessionKey: event.SessionID.String()},
		},
	}

	created, err := c.service.Events.Insert(c.calendarID, body).ConferenceDataVersion(1).Context(ctx).Do()
	if err != nil {
		c.logger.Error("CreateEvent: session=%s: %v", event.SessionID, err)
		return nil, fmt.Errorf("%w: CreateEvent - %v", ErrRequestFailed, err)
	}

	c.logger.Info("CreateEvent: session=%s, event=%s", event.SessionID, created.Id)
	return &domain.CalendarEventRef{EventID: created.Id, JoinLink: created.HangoutLink}, nil
}

// UpdateEvent меняет название и время события. Длительность без Start считается от текущего начала.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, update domain.CalendarEventUpdate) error {
	patch := &calendar.Event{}
	if update.Title != nil {
		patch.Summary = *update.Title
	}

	if update.Start != nil || update.DurationMinutes != nil {
		current, err := c.service.Events.Get(c.calendarID, eventID).Context(ctx).Do()
		if err != nil {
			c.logger.Error("UpdateEvent: failed to get event=%s: %v", eventID, err)
			return fmt.Errorf("%w: UpdateEvent - %v", ErrRequestFailed, err)
		}

		start, end, err := eventBounds(current)
		if err != nil {
			return fmt.Errorf("%w: UpdateEvent - %v", ErrRequestFailed, err)
		}
		duration := end.Sub(start)
		if update.DurationMinutes != nil {
			duration = time.Duration(*update.DurationMinutes) * time.Minute
		}
		if update.Start != nil {
			start = *update.Start
		}
		patch.Start = dateTime(start)
		patch.End = dateTime(start.Add(duration))
	}

	if _, err := c.service.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do(); err != nil {
		c.logger.Error("UpdateEvent: event=%s: %v", eventID, err)
		return fmt.Errorf("%w: UpdateEvent - %v", ErrRequestFailed, err)
	}

	c.logger.Info("UpdateEvent: event=%s updated", eventID)
	return nil
}

// CancelEvent удаляет событие. Уже удаленное событие не ошибка.
func (c *Client) CancelEvent(ctx context.Context, eventID string) error {
	err := c.service.Events.Delete(c.calendarID, eventID).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			c.logger.Warn("CancelEvent: event=%s already removed", eventID)
			return nil
		}
		c.logger.Error("CancelEvent: event=%s: %v", eventID, err)
		return fmt.Errorf("%w: CancelEvent - %v", ErrRequestFailed, err)
	}

	c.logger.Info("CancelEvent: event=%s cancelled", eventID)
	return nil
}

func (c *Client) attendees(ctx context.Context, ids []uuid.UUID) []*calendar.EventAttendee {
	out := make([]*calendar.EventAttendee, 0, len(ids))
	for _, id := range ids {
		user, err := c.users.GetUser(ctx, id)
		if err != nil {
			c.logger.Warn("CreateEvent: attendee=%s skipped: %v", id, err)
			continue
		}
		if user.Email == "" {
			continue
		}
		out = append(out, &calendar.EventAttendee{Email: user.Email, DisplayName: user.Name})
	}
	return out
}

func dateTime(t time.Time) *calendar.EventDateTime {
	return &calendar.EventDateTime{DateTime: t.UTC().Format(time.RFC3339), TimeZone: "UTC"}
}

func eventBounds(e *calendar.Event) (time.Time, time.Time, error) {
	if e.Start == nil || e.End == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("event %s has no time bounds", e.Id)
	}
	start, err := time.Parse(time.RFC3339, e.Start.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(time.RFC3339, e.End.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

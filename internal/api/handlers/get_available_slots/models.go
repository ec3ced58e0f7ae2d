package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-MentorshipService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	MentorID        uuid.UUID       `json:"mentorId"`
	Timezone        string          `json:"timezone"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot свободный интервал, время в UTC и в поясе ментора
type AvailableSlot struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	LocalStart      string `json:"localStart"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	loc, err := time.LoadLocation(resp.Timezone)
	if err != nil {
		loc = time.UTC
	}

	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Start:           slot.Start.UTC().Format(time.RFC3339),
			End:             slot.End.UTC().Format(time.RFC3339),
			LocalStart:      slot.Start.In(loc).Format(time.RFC3339),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		MentorID:        resp.MentorID,
		Timezone:        resp.Timezone,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(mentorID uuid.UUID, startStr, endStr string, duration int) (*getAvailableSlots.Request, error) {
	start, err := time.Parse(domain.DateFormat, startStr)
	if err != nil {
		return nil, err
	}

	end := start
	if endStr != "" {
		end, err = time.Parse(domain.DateFormat, endStr)
		if err != nil {
			return nil, err
		}
	}

	return &getAvailableSlots.Request{
		MentorID:        mentorID,
		StartDate:       start,
		EndDate:         end,
		DurationMinutes: duration,
	}, nil
}

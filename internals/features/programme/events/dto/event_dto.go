package dto

import (
	"time"

	"github.com/google/uuid"

	"ilmhub_backend/internals/features/programme/events/model"
)

type CreateEventRequest struct {
	EventTitle       string     `json:"event_title" validate:"required,max=255"`
	EventSlug        string     `json:"event_slug" validate:"omitempty,max=160"`
	EventDescription string     `json:"event_description"`
	EventLocation    string     `json:"event_location" validate:"omitempty,max=255"`
	EventImageURL    string     `json:"event_image_url" validate:"omitempty,url"`
	EventSpeaker     string     `json:"event_speaker" validate:"omitempty,max=160"`
	EventStartAt     time.Time  `json:"event_start_at" validate:"required"`
	EventEndAt       *time.Time `json:"event_end_at"`
	EventStatus      string     `json:"event_status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	EventIsWeekly    bool       `json:"event_is_weekly"`
}

type UpdateEventRequest struct {
	EventTitle       *string    `json:"event_title" validate:"omitempty,max=255"`
	EventSlug        *string    `json:"event_slug" validate:"omitempty,max=160"`
	EventDescription *string    `json:"event_description"`
	EventLocation    *string    `json:"event_location" validate:"omitempty,max=255"`
	EventImageURL    *string    `json:"event_image_url" validate:"omitempty,url"`
	EventSpeaker     *string    `json:"event_speaker" validate:"omitempty,max=160"`
	EventStartAt     *time.Time `json:"event_start_at"`
	EventEndAt       *time.Time `json:"event_end_at"`
	EventStatus      *string    `json:"event_status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	EventIsWeekly    *bool      `json:"event_is_weekly"`
}

type EventResponse struct {
	EventID          uuid.UUID  `json:"event_id"`
	EventTitle       string     `json:"event_title"`
	EventSlug        string     `json:"event_slug"`
	EventDescription string     `json:"event_description"`
	EventLocation    string     `json:"event_location"`
	EventImageURL    string     `json:"event_image_url"`
	EventSpeaker     string     `json:"event_speaker"`
	EventStartAt     time.Time  `json:"event_start_at"`
	EventEndAt       *time.Time `json:"event_end_at"`
	EventStatus      string     `json:"event_status"`
	EventIsWeekly    bool       `json:"event_is_weekly"`
	EventWeekday     int        `json:"event_weekday"`
	EventParentID    *uuid.UUID `json:"event_parent_id"`
	InterestedCount  int64      `json:"event_interested_count"`
	EventCreatedAt   time.Time  `json:"event_created_at"`
	EventUpdatedAt   time.Time  `json:"event_updated_at"`
}

func ToEventResponse(m model.EventModel) EventResponse {
	return EventResponse{
		EventID:          m.EventID,
		EventTitle:       m.EventTitle,
		EventSlug:        m.EventSlug,
		EventDescription: m.EventDescription,
		EventLocation:    m.EventLocation,
		EventImageURL:    m.EventImageURL,
		EventSpeaker:     m.EventSpeaker,
		EventStartAt:     m.EventStartAt,
		EventEndAt:       m.EventEndAt,
		EventStatus:      m.EventStatus,
		EventIsWeekly:    m.EventIsWeekly,
		EventWeekday:     m.EventWeekday,
		EventParentID:    m.EventParentID,
		EventCreatedAt:   m.EventCreatedAt,
		EventUpdatedAt:   m.EventUpdatedAt,
	}
}

func ToEventResponseList(rows []model.EventModel, interested map[uuid.UUID]int64) []EventResponse {
	out := make([]EventResponse, 0, len(rows))
	for _, r := range rows {
		e := ToEventResponse(r)
		e.InterestedCount = interested[r.EventID]
		out = append(out, e)
	}
	return out
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// EventModel is a programme entry. A weekly template (EventIsWeekly) is itself the
// first occurrence; later occurrences point back to it through EventParentID.
type EventModel struct {
	EventID          uuid.UUID  `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventTitle       string     `gorm:"column:event_title;type:varchar(255);not null" json:"event_title"`
	EventSlug        string     `gorm:"column:event_slug;type:varchar(180);not null;uniqueIndex" json:"event_slug"`
	EventDescription string     `gorm:"column:event_description;type:text" json:"event_description"`
	EventLocation    string     `gorm:"column:event_location;type:varchar(255)" json:"event_location"`
	EventImageURL    string     `gorm:"column:event_image_url;type:text" json:"event_image_url"`
	EventSpeaker     string     `gorm:"column:event_speaker;type:varchar(160)" json:"event_speaker"`
	EventStartAt     time.Time  `gorm:"column:event_start_at;not null;index;index:idx_events_parent_start,priority:2" json:"event_start_at"`
	EventEndAt       *time.Time `gorm:"column:event_end_at" json:"event_end_at"`
	EventStatus      string     `gorm:"column:event_status;type:varchar(20);not null;index" json:"event_status"`

	EventIsWeekly bool       `gorm:"column:event_is_weekly;not null" json:"event_is_weekly"`
	EventWeekday  int        `gorm:"column:event_weekday" json:"event_weekday"` // 0 = Sunday
	EventParentID *uuid.UUID `gorm:"column:event_parent_id;type:uuid;index:idx_events_parent_start,priority:1" json:"event_parent_id"`

	EventDailyReminderSentAt  *time.Time `gorm:"column:event_daily_reminder_sent_at" json:"-"`
	EventHourlyReminderSentAt *time.Time `gorm:"column:event_hourly_reminder_sent_at" json:"-"`

	EventCreatedAt time.Time      `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index" json:"-"`
}

func (EventModel) TableName() string {
	return "events"
}

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	if m.EventStatus == "" {
		m.EventStatus = StatusUpcoming
	}
	return nil
}

// EffectiveEnd is EventEndAt, or two hours after the start when no end was given.
func (m EventModel) EffectiveEnd() time.Time {
	if m.EventEndAt != nil {
		return *m.EventEndAt
	}
	return m.EventStartAt.Add(2 * time.Hour)
}

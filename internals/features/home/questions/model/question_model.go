package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusAnswered = "answered"
	StatusRejected = "rejected"
)

type QuestionModel struct {
	QuestionID           uuid.UUID      `gorm:"column:question_id;type:uuid;primaryKey" json:"question_id"`
	QuestionUserID       string         `gorm:"column:question_user_id;type:varchar(64);not null;index" json:"question_user_id"`
	QuestionTitle        string         `gorm:"column:question_title;type:varchar(255);not null" json:"question_title"`
	QuestionBody         string         `gorm:"column:question_body;type:text;not null" json:"question_body"`
	QuestionStatus       string         `gorm:"column:question_status;type:varchar(20);not null;index" json:"question_status"`
	QuestionAnswer       string         `gorm:"column:question_answer;type:text" json:"question_answer"`
	QuestionAnsweredBy   *string        `gorm:"column:question_answered_by;type:varchar(64)" json:"question_answered_by"`
	QuestionAnsweredAt   *time.Time     `gorm:"column:question_answered_at" json:"question_answered_at"`
	QuestionRejectReason string         `gorm:"column:question_reject_reason;type:text" json:"question_reject_reason"`
	QuestionIsPublic     bool           `gorm:"column:question_is_public;not null" json:"question_is_public"`
	QuestionCreatedAt    time.Time      `gorm:"column:question_created_at;autoCreateTime" json:"question_created_at"`
	QuestionUpdatedAt    time.Time      `gorm:"column:question_updated_at;autoUpdateTime" json:"question_updated_at"`
	QuestionDeletedAt    gorm.DeletedAt `gorm:"column:question_deleted_at;index" json:"-"`
}

func (QuestionModel) TableName() string {
	return "questions"
}

func (m *QuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuestionID == uuid.Nil {
		m.QuestionID = uuid.New()
	}
	if m.QuestionStatus == "" {
		m.QuestionStatus = StatusPending
	}
	return nil
}

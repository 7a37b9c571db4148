package dto

import (
	"time"

	"github.com/google/uuid"

	"ilmhub_backend/internals/features/home/questions/model"
)

type CreateQuestionRequest struct {
	QuestionTitle    string `json:"question_title" validate:"required,min=5,max=255"`
	QuestionBody     string `json:"question_body" validate:"required,min=10,max=5000"`
	QuestionIsPublic *bool  `json:"question_is_public"`
}

type AnswerQuestionRequest struct {
	QuestionAnswer   string `json:"question_answer" validate:"required,min=2"`
	QuestionIsPublic *bool  `json:"question_is_public"`
}

type RejectQuestionRequest struct {
	QuestionRejectReason string `json:"question_reject_reason" validate:"omitempty,max=1000"`
}

type QuestionResponse struct {
	QuestionID           uuid.UUID  `json:"question_id"`
	QuestionUserID       string     `json:"question_user_id,omitempty"`
	QuestionTitle        string     `json:"question_title"`
	QuestionBody         string     `json:"question_body"`
	QuestionStatus       string     `json:"question_status"`
	QuestionAnswer       string     `json:"question_answer,omitempty"`
	QuestionAnsweredAt   *time.Time `json:"question_answered_at,omitempty"`
	QuestionRejectReason string     `json:"question_reject_reason,omitempty"`
	QuestionIsPublic     bool       `json:"question_is_public"`
	QuestionLikeCount    int64      `json:"question_like_count"`
	QuestionCreatedAt    time.Time  `json:"question_created_at"`
	QuestionUpdatedAt    time.Time  `json:"question_updated_at"`
}

func ToQuestionResponse(m model.QuestionModel) QuestionResponse {
	return QuestionResponse{
		QuestionID:           m.QuestionID,
		QuestionUserID:       m.QuestionUserID,
		QuestionTitle:        m.QuestionTitle,
		QuestionBody:         m.QuestionBody,
		QuestionStatus:       m.QuestionStatus,
		QuestionAnswer:       m.QuestionAnswer,
		QuestionAnsweredAt:   m.QuestionAnsweredAt,
		QuestionRejectReason: m.QuestionRejectReason,
		QuestionIsPublic:     m.QuestionIsPublic,
		QuestionCreatedAt:    m.QuestionCreatedAt,
		QuestionUpdatedAt:    m.QuestionUpdatedAt,
	}
}

// ToPublicQuestion hides who asked.
func ToPublicQuestion(m model.QuestionModel, likes int64) QuestionResponse {
	r := ToQuestionResponse(m)
	r.QuestionUserID = ""
	r.QuestionRejectReason = ""
	r.QuestionLikeCount = likes
	return r
}

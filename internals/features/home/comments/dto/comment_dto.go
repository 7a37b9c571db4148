package dto

import (
	"time"

	"github.com/google/uuid"

	"ilmhub_backend/internals/features/home/comments/model"
)

type CreateCommentRequest struct {
	CommentTargetType string     `json:"comment_target_type" validate:"required,oneof=video masalah question event book"`
	CommentTargetID   uuid.UUID  `json:"comment_target_id" validate:"required"`
	CommentParentID   *uuid.UUID `json:"comment_parent_id"`
	CommentContent    string     `json:"comment_content" validate:"required,min=1,max=2000"`
}

type UpdateCommentRequest struct {
	CommentContent string `json:"comment_content" validate:"required,min=1,max=2000"`
}

type CommentAuthor struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

type CommentResponse struct {
	CommentID         uuid.UUID         `json:"comment_id"`
	CommentTargetType string            `json:"comment_target_type"`
	CommentTargetID   uuid.UUID         `json:"comment_target_id"`
	CommentParentID   *uuid.UUID        `json:"comment_parent_id"`
	CommentContent    string            `json:"comment_content"`
	CommentIsEdited   bool              `json:"comment_is_edited"`
	CommentLikeCount  int64             `json:"comment_like_count"`
	CommentAuthor     CommentAuthor     `json:"comment_author"`
	CommentCreatedAt  time.Time         `json:"comment_created_at"`
	CommentUpdatedAt  time.Time         `json:"comment_updated_at"`
	Replies           []CommentResponse `json:"replies,omitempty"`
}

func ToCommentResponse(m model.CommentModel) CommentResponse {
	return CommentResponse{
		CommentID:         m.CommentID,
		CommentTargetType: m.CommentTargetType,
		CommentTargetID:   m.CommentTargetID,
		CommentParentID:   m.CommentParentID,
		CommentContent:    m.CommentContent,
		CommentIsEdited:   m.CommentIsEdited,
		CommentAuthor:     CommentAuthor{UserID: m.CommentUserID},
		CommentCreatedAt:  m.CommentCreatedAt,
		CommentUpdatedAt:  m.CommentUpdatedAt,
	}
}

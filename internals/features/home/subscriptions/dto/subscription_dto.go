package dto

import (
	"time"

	"github.com/google/uuid"

	"ilmhub_backend/internals/features/home/subscriptions/model"
)

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Name  string `json:"name" validate:"omitempty,max=160"`
}

type SubscriptionResponse struct {
	SubscriptionID        uuid.UUID `json:"subscription_id"`
	SubscriptionEmail     string    `json:"subscription_email"`
	SubscriptionName      string    `json:"subscription_name"`
	SubscriptionIsActive  bool      `json:"subscription_is_active"`
	SubscriptionCreatedAt time.Time `json:"subscription_created_at"`
	SubscriptionUpdatedAt time.Time `json:"subscription_updated_at"`
}

func ToSubscriptionResponse(m model.SubscriptionModel) SubscriptionResponse {
	return SubscriptionResponse{
		SubscriptionID:        m.SubscriptionID,
		SubscriptionEmail:     m.SubscriptionEmail,
		SubscriptionName:      m.SubscriptionName,
		SubscriptionIsActive:  m.SubscriptionIsActive,
		SubscriptionCreatedAt: m.SubscriptionCreatedAt,
		SubscriptionUpdatedAt: m.SubscriptionUpdatedAt,
	}
}

func ToSubscriptionResponseList(rows []model.SubscriptionModel) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToSubscriptionResponse(r))
	}
	return out
}

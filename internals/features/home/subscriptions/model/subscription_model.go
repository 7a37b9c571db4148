package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionModel struct {
	SubscriptionID        uuid.UUID `gorm:"column:subscription_id;type:uuid;primaryKey" json:"subscription_id"`
	SubscriptionEmail     string    `gorm:"column:subscription_email;type:varchar(255);not null;uniqueIndex" json:"subscription_email"`
	SubscriptionName      string    `gorm:"column:subscription_name;type:varchar(160)" json:"subscription_name"`
	SubscriptionToken     string    `gorm:"column:subscription_token;type:varchar(64);not null;uniqueIndex" json:"-"`
	SubscriptionIsActive  bool      `gorm:"column:subscription_is_active;not null" json:"subscription_is_active"`
	SubscriptionCreatedAt time.Time `gorm:"column:subscription_created_at;autoCreateTime" json:"subscription_created_at"`
	SubscriptionUpdatedAt time.Time `gorm:"column:subscription_updated_at;autoUpdateTime" json:"subscription_updated_at"`
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

func (m *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubscriptionID == uuid.Nil {
		m.SubscriptionID = uuid.New()
	}
	if m.SubscriptionToken == "" {
		m.SubscriptionToken = NewToken()
	}
	return nil
}

// NewToken returns the opaque value embedded in unsubscribe links.
func NewToken() string {
	return uuid.NewString() + uuid.NewString()[:8]
}

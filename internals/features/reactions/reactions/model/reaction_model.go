package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReactionModel is one user's like/bookmark/interest on one target.
// Rows are flipped, never deleted, so toggling is a single-row update.
type ReactionModel struct {
	ReactionID         uuid.UUID `gorm:"column:reaction_id;type:uuid;primaryKey" json:"reaction_id"`
	ReactionKind       string    `gorm:"column:reaction_kind;type:varchar(20);not null;uniqueIndex:uq_reactions_key,priority:1" json:"reaction_kind"`
	ReactionTargetType string    `gorm:"column:reaction_target_type;type:varchar(20);not null;uniqueIndex:uq_reactions_key,priority:2;index:idx_reactions_target,priority:1" json:"reaction_target_type"`
	ReactionTargetID   uuid.UUID `gorm:"column:reaction_target_id;type:uuid;not null;uniqueIndex:uq_reactions_key,priority:3;index:idx_reactions_target,priority:2" json:"reaction_target_id"`
	ReactionUserID     string    `gorm:"column:reaction_user_id;type:varchar(64);not null;uniqueIndex:uq_reactions_key,priority:4;index" json:"reaction_user_id"`
	ReactionIsActive   bool      `gorm:"column:reaction_is_active;not null" json:"reaction_is_active"`
	ReactionCreatedAt  time.Time `gorm:"column:reaction_created_at;autoCreateTime" json:"reaction_created_at"`
	ReactionUpdatedAt  time.Time `gorm:"column:reaction_updated_at;autoUpdateTime" json:"reaction_updated_at"`
}

func (ReactionModel) TableName() string {
	return "reactions"
}

func (r *ReactionModel) BeforeCreate(tx *gorm.DB) error {
	if r.ReactionID == uuid.Nil {
		r.ReactionID = uuid.New()
	}
	return nil
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ilmhub_backend/internals/features/reactions/reactions/model"
)

type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

type ReactionService struct {
	DB *gorm.DB
}

func NewReactionService(db *gorm.DB) *ReactionService {
	return &ReactionService{DB: db}
}

func keyScope(kind, targetType string, targetID uuid.UUID, userID string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("reaction_kind = ? AND reaction_target_type = ? AND reaction_target_id = ? AND reaction_user_id = ?",
			kind, targetType, targetID, userID)
	}
}

// Toggle flips the user's membership. The first toggle creates an active row,
// so toggling twice always lands back on the starting state.
func (s *ReactionService) Toggle(ctx context.Context, kind, targetType string, targetID uuid.UUID, userID string) (ToggleResult, error) {
	var out ToggleResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ReactionModel{}).
			Scopes(keyScope(kind, targetType, targetID, userID)).
			Updates(map[string]any{
				"reaction_is_active":  gorm.Expr("NOT reaction_is_active"),
				"reaction_updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			row := model.ReactionModel{
				ReactionKind:       kind,
				ReactionTargetType: targetType,
				ReactionTargetID:   targetID,
				ReactionUserID:     userID,
				ReactionIsActive:   true,
			}
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected == 0 {
				// lost a race with a concurrent first toggle: flip the row it created
				if err := tx.Model(&model.ReactionModel{}).
					Scopes(keyScope(kind, targetType, targetID, userID)).
					Update("reaction_is_active", gorm.Expr("NOT reaction_is_active")).Error; err != nil {
					return err
				}
			}
		}

		var state model.ReactionModel
		if err := tx.Scopes(keyScope(kind, targetType, targetID, userID)).Take(&state).Error; err != nil {
			return err
		}
		out.Active = state.ReactionIsActive

		return tx.Model(&model.ReactionModel{}).
			Where("reaction_kind = ? AND reaction_target_type = ? AND reaction_target_id = ? AND reaction_is_active = ?",
				kind, targetType, targetID, true).
			Count(&out.Count).Error
	})
	return out, err
}

func (s *ReactionService) Count(ctx context.Context, kind, targetType string, targetID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.ReactionModel{}).
		Where("reaction_kind = ? AND reaction_target_type = ? AND reaction_target_id = ? AND reaction_is_active = ?",
			kind, targetType, targetID, true).
		Count(&n).Error
	return n, err
}

func (s *ReactionService) IsActive(ctx context.Context, kind, targetType string, targetID uuid.UUID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.ReactionModel{}).
		Scopes(keyScope(kind, targetType, targetID, userID)).
		Where("reaction_is_active = ?", true).
		Count(&n).Error
	return n > 0, err
}

// Counts returns active counts for many targets at once (list decoration).
func (s *ReactionService) Counts(ctx context.Context, kind, targetType string, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ReactionTargetID uuid.UUID
		N                int64
	}
	err := s.DB.WithContext(ctx).Model(&model.ReactionModel{}).
		Select("reaction_target_id, COUNT(*) AS n").
		Where("reaction_kind = ? AND reaction_target_type = ? AND reaction_is_active = ? AND reaction_target_id IN ?",
			kind, targetType, true, ids).
		Group("reaction_target_id").
		Scan(&rows).Error
	for _, r := range rows {
		out[r.ReactionTargetID] = r.N
	}
	return out, err
}

// ActiveTargetIDs lists what a user currently has (bookmarks, interested events).
func (s *ReactionService) ActiveTargetIDs(ctx context.Context, kind, targetType, userID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).Model(&model.ReactionModel{}).
		Where("reaction_kind = ? AND reaction_target_type = ? AND reaction_user_id = ? AND reaction_is_active = ?",
			kind, targetType, userID, true).
		Order("reaction_updated_at DESC").
		Pluck("reaction_target_id", &ids).Error
	return ids, err
}

// ActiveUserIDs lists who reacted to a target (eg. interested users of an event).
func (s *ReactionService) ActiveUserIDs(ctx context.Context, kind, targetType string, targetID uuid.UUID) ([]string, error) {
	var ids []string
	err := s.DB.WithContext(ctx).Model(&model.ReactionModel{}).
		Where("reaction_kind = ? AND reaction_target_type = ? AND reaction_target_id = ? AND reaction_is_active = ?",
			kind, targetType, targetID, true).
		Pluck("reaction_user_id", &ids).Error
	return ids, err
}

// DeleteForTarget drops all reactions when the target is removed.
func (s *ReactionService) DeleteForTarget(ctx context.Context, tx *gorm.DB, targetType string, targetID uuid.UUID) error {
	if tx == nil {
		tx = s.DB
	}
	return tx.WithContext(ctx).
		Where("reaction_target_type = ? AND reaction_target_id = ?", targetType, targetID).
		Delete(&model.ReactionModel{}).Error
}

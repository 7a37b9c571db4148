package controller

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ilmhub_backend/internals/features/reactions/reactions/service"
	helper "ilmhub_backend/internals/helpers"
)

// TargetChecker reports whether a target row exists (and is not soft-deleted).
type TargetChecker func(ctx context.Context, id uuid.UUID) (bool, error)

// ExistsIn checks through the model so gorm's soft-delete scope applies.
func ExistsIn(db *gorm.DB, model any, idColumn string) TargetChecker {
	return func(ctx context.Context, id uuid.UUID) (bool, error) {
		var n int64
		err := db.WithContext(ctx).Model(model).Where(idColumn+" = ?", id).Count(&n).Error
		return n > 0, err
	}
}

type ReactionController struct {
	Svc *service.ReactionService
}

func NewReactionController(db *gorm.DB) *ReactionController {
	return &ReactionController{Svc: service.NewReactionService(db)}
}

// Toggle builds POST /:id/{like|bookmark|interest}
func (rc *ReactionController) Toggle(kind, targetType string, exists TargetChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := helper.RequireUserID(c)
		if err != nil {
			return err
		}
		id, err := helper.ParseUUIDParam(c, "id", targetType)
		if err != nil {
			return err
		}
		ok, err := exists(c.UserContext(), id)
		if err != nil {
			log.Printf("[ERROR] %s exists check: %v", targetType, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load "+targetType)
		}
		if !ok {
			return helper.JsonError(c, fiber.StatusNotFound, targetType+" not found")
		}

		res, err := rc.Svc.Toggle(c.UserContext(), kind, targetType, id, userID)
		if err != nil {
			log.Printf("[ERROR] toggle %s on %s %s: %v", kind, targetType, id, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to toggle "+kind)
		}
		return helper.JsonOK(c, kind+" toggled", fiber.Map{
			"target_type": targetType,
			"target_id":   id,
			"kind":        kind,
			"active":      res.Active,
			"count":       res.Count,
		})
	}
}

// Count builds GET /:id/{likes|interested}; liked_by_me is filled when a user token is present.
func (rc *ReactionController) Count(kind, targetType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := helper.ParseUUIDParam(c, "id", targetType)
		if err != nil {
			return err
		}
		n, err := rc.Svc.Count(c.UserContext(), kind, targetType, id)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count "+kind)
		}
		mine, err := rc.Svc.IsActive(c.UserContext(), kind, targetType, id, helper.GetUserID(c))
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count "+kind)
		}
		return helper.JsonOK(c, "ok", fiber.Map{
			"target_id": id,
			"kind":      kind,
			"count":     n,
			"mine":      mine,
		})
	}
}

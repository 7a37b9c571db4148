package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/home/comments/dto"
	"ilmhub_backend/internals/features/home/comments/model"
	reactionController "ilmhub_backend/internals/features/reactions/reactions/controller"
	reactionService "ilmhub_backend/internals/features/reactions/reactions/service"
	userModel "ilmhub_backend/internals/features/users/users/model"
	helper "ilmhub_backend/internals/helpers"
)

type CommentController struct {
	DB        *gorm.DB
	Reactions *reactionService.ReactionService
	// Targets maps a target type to its existence check.
	Targets map[string]reactionController.TargetChecker
}

func NewCommentController(db *gorm.DB, targets map[string]reactionController.TargetChecker) *CommentController {
	return &CommentController{DB: db, Reactions: reactionService.NewReactionService(db), Targets: targets}
}

func (cc *CommentController) targetExists(c *fiber.Ctx, targetType string, id uuid.UUID) (bool, error) {
	check, ok := cc.Targets[targetType]
	if !ok {
		return false, nil
	}
	return check(c.UserContext(), id)
}

// GET /api/public/comments?target_type=video&target_id=...
func (cc *CommentController) ListByTarget(c *fiber.Ctx) error {
	targetType := strings.TrimSpace(c.Query("target_type"))
	targetID, err := uuid.Parse(strings.TrimSpace(c.Query("target_id")))
	if targetType == "" || err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "target_type and target_id are required")
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	db := cc.DB.WithContext(c.UserContext())

	q := db.Model(&model.CommentModel{}).
		Where("comment_target_type = ? AND comment_target_id = ? AND comment_parent_id IS NULL", targetType, targetID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count comments")
	}
	var parents []model.CommentModel
	if err := q.Order(p.OrderClause(map[string]string{"created_at": "comment_created_at"}, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&parents).Error; err != nil {
		log.Printf("[ERROR] list comments: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch comments")
	}

	parentIDs := make([]uuid.UUID, 0, len(parents))
	for _, pc := range parents {
		parentIDs = append(parentIDs, pc.CommentID)
	}
	var replies []model.CommentModel
	if len(parentIDs) > 0 {
		if err := db.Where("comment_parent_id IN ?", parentIDs).
			Order("comment_created_at ASC").Find(&replies).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch replies")
		}
	}

	all := append(append([]model.CommentModel{}, parents...), replies...)
	authors := cc.authors(c, all)
	ids := make([]uuid.UUID, 0, len(all))
	for _, m := range all {
		ids = append(ids, m.CommentID)
	}
	likes, err := cc.Reactions.Counts(c.UserContext(), constants.ReactionLike, constants.TargetComment, ids)
	if err != nil {
		log.Printf("[WARN] comment like counts: %v", err)
	}

	decorate := func(m model.CommentModel) dto.CommentResponse {
		r := dto.ToCommentResponse(m)
		r.CommentLikeCount = likes[m.CommentID]
		if a, ok := authors[m.CommentUserID]; ok {
			r.CommentAuthor = a
		}
		return r
	}
	byParent := map[uuid.UUID][]dto.CommentResponse{}
	for _, r := range replies {
		byParent[*r.CommentParentID] = append(byParent[*r.CommentParentID], decorate(r))
	}
	out := make([]dto.CommentResponse, 0, len(parents))
	for _, pc := range parents {
		r := decorate(pc)
		r.Replies = byParent[pc.CommentID]
		out = append(out, r)
	}
	return helper.JsonList(c, "ok", out, helper.BuildPagination(total, p))
}

func (cc *CommentController) authors(c *fiber.Ctx, rows []model.CommentModel) map[string]dto.CommentAuthor {
	out := map[string]dto.CommentAuthor{}
	if len(rows) == 0 {
		return out
	}
	seen := map[string]bool{}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if !seen[r.CommentUserID] {
			seen[r.CommentUserID] = true
			ids = append(ids, r.CommentUserID)
		}
	}
	var users []userModel.UserModel
	if err := cc.DB.WithContext(c.UserContext()).Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.Printf("[WARN] comment authors: %v", err)
		return out
	}
	for _, u := range users {
		out[u.ID] = dto.CommentAuthor{UserID: u.ID, Name: u.FullName(), ImageURL: u.ImageURL}
	}
	return out
}

// POST /api/u/comments
func (cc *CommentController) Create(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}

	ok, err := cc.targetExists(c, req.CommentTargetType, req.CommentTargetID)
	if err != nil {
		log.Printf("[ERROR] comment target check: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check target")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, req.CommentTargetType+" not found")
	}

	row := model.CommentModel{
		CommentTargetType: req.CommentTargetType,
		CommentTargetID:   req.CommentTargetID,
		CommentUserID:     userID,
		CommentContent:    strings.TrimSpace(req.CommentContent),
	}

	if req.CommentParentID != nil {
		var parent model.CommentModel
		if err := cc.DB.WithContext(c.UserContext()).First(&parent, "comment_id = ?", *req.CommentParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusNotFound, "Parent comment not found")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load parent comment")
		}
		if parent.CommentTargetType != row.CommentTargetType || parent.CommentTargetID != row.CommentTargetID {
			return helper.JsonError(c, fiber.StatusBadRequest, "Parent comment belongs to another target")
		}
		// replying to a reply attaches to the thread root
		rootID := parent.CommentID
		if parent.CommentParentID != nil {
			rootID = *parent.CommentParentID
		}
		row.CommentParentID = &rootID
	}

	if err := cc.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		log.Printf("[ERROR] create comment: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to post comment")
	}
	return helper.JsonCreated(c, "Comment posted", dto.ToCommentResponse(row))
}

func (cc *CommentController) loadComment(c *fiber.Ctx) (*model.CommentModel, error) {
	id, err := helper.ParseUUIDParam(c, "id", "Comment")
	if err != nil {
		return nil, err
	}
	var row model.CommentModel
	if err := cc.DB.WithContext(c.UserContext()).First(&row, "comment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Comment not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load comment")
	}
	return &row, nil
}

// PATCH /api/u/comments/:id (author only)
func (cc *CommentController) Update(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCommentRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	row, err := cc.loadComment(c)
	if err != nil {
		return err
	}
	if row.CommentUserID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "You can only edit your own comment")
	}

	content := strings.TrimSpace(req.CommentContent)
	if err := cc.DB.WithContext(c.UserContext()).Model(row).Updates(map[string]any{
		"comment_content":   content,
		"comment_is_edited": true,
	}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update comment")
	}
	row.CommentContent = content
	row.CommentIsEdited = true
	return helper.JsonUpdated(c, "Comment updated", dto.ToCommentResponse(*row))
}

// DELETE /api/u/comments/:id (author or admin); replies go with their parent.
func (cc *CommentController) Delete(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	row, err := cc.loadComment(c)
	if err != nil {
		return err
	}
	if row.CommentUserID != userID && !helper.IsAdmin(c) {
		return helper.JsonError(c, fiber.StatusForbidden, "You can only delete your own comment")
	}

	err = cc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ? OR comment_parent_id = ?", row.CommentID, row.CommentID).
			Delete(&model.CommentModel{}).Error; err != nil {
			return err
		}
		return cc.Reactions.DeleteForTarget(c.UserContext(), tx, constants.TargetComment, row.CommentID)
	})
	if err != nil {
		log.Printf("[ERROR] delete comment %s: %v", row.CommentID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete comment")
	}
	return helper.JsonDeleted(c, "Comment deleted", fiber.Map{"comment_id": row.CommentID})
}

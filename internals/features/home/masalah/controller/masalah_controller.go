package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/home/masalah/dto"
	"ilmhub_backend/internals/features/home/masalah/model"
	reactionService "ilmhub_backend/internals/features/reactions/reactions/service"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/audit"
)

type MasalahController struct {
	DB        *gorm.DB
	Audit     audit.Logger
	Reactions *reactionService.ReactionService
}

func NewMasalahController(db *gorm.DB, al audit.Logger) *MasalahController {
	return &MasalahController{DB: db, Audit: al, Reactions: reactionService.NewReactionService(db)}
}

var masalahSorts = map[string]string{
	"created_at": "masalah_created_at",
	"views":      "masalah_views",
	"title":      "masalah_title",
}

func (mc *MasalahController) list(c *fiber.Ctx, onlyPublished bool, opt helper.Options) error {
	p := helper.ParseFiber(c, "created_at", "desc", opt)
	q := mc.DB.WithContext(c.UserContext()).Model(&model.MasalahModel{})
	if onlyPublished {
		q = q.Where("masalah_is_published = ?", true)
	}
	if p.Q != "" {
		like := p.LikePattern()
		q = q.Where("LOWER(masalah_title) LIKE ? OR LOWER(masalah_question) LIKE ?", like, like)
	}
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "category_id must be a uuid")
		}
		q = q.Where("masalah_category_id = ?", id)
	}
	if tag := strings.ToLower(strings.TrimSpace(c.Query("tag"))); tag != "" {
		// tags are stored as a normalized json array of strings
		q = q.Where("CAST(masalah_tags AS TEXT) LIKE ?", `%"`+tag+`"%`)
	}
	if m := strings.TrimSpace(c.Query("mufti")); m != "" {
		q = q.Where("LOWER(masalah_mufti) LIKE ?", "%"+strings.ToLower(m)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count masalah")
	}
	var rows []model.MasalahModel
	if err := q.Order(p.OrderClause(masalahSorts, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list masalah: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch masalah")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.MasalahID)
	}
	likes, err := mc.Reactions.Counts(c.UserContext(), constants.ReactionLike, constants.TargetMasalah, ids)
	if err != nil {
		log.Printf("[WARN] masalah like counts: %v", err)
	}
	out := make([]dto.MasalahResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToMasalahListItem(r, likes[r.MasalahID]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPagination(total, p))
}

// GET /api/public/masalah
func (mc *MasalahController) ListPublic(c *fiber.Ctx) error {
	return mc.list(c, true, helper.DefaultOpts)
}

// GET /api/a/masalah
func (mc *MasalahController) ListAdmin(c *fiber.Ctx) error {
	return mc.list(c, false, helper.AdminOpts)
}

// GET /api/public/masalah/:key
func (mc *MasalahController) Detail(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Params("key"))
	db := mc.DB.WithContext(c.UserContext())
	q := db.Where("masalah_is_published = ?", true)
	if id, err := uuid.Parse(key); err == nil {
		q = q.Where("masalah_id = ?", id)
	} else {
		q = q.Where("LOWER(masalah_slug) = ?", strings.ToLower(key))
	}

	var row model.MasalahModel
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Masalah not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load masalah")
	}
	if err := db.Model(&model.MasalahModel{}).Where("masalah_id = ?", row.MasalahID).
		UpdateColumn("masalah_views", gorm.Expr("masalah_views + ?", 1)).Error; err == nil {
		row.MasalahViews++
	}

	out := dto.ToMasalahResponse(row)
	if n, err := mc.Reactions.Count(c.UserContext(), constants.ReactionLike, constants.TargetMasalah, row.MasalahID); err == nil {
		out.MasalahLikeCount = n
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/u/masalah/bookmarks
func (mc *MasalahController) MyBookmarks(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	ids, err := mc.Reactions.ActiveTargetIDs(c.UserContext(), constants.ReactionBookmark, constants.TargetMasalah, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch bookmarks")
	}
	var rows []model.MasalahModel
	if len(ids) > 0 {
		if err := mc.DB.WithContext(c.UserContext()).
			Where("masalah_id IN ? AND masalah_is_published = ?", ids, true).
			Order("masalah_created_at DESC").
			Find(&rows).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch bookmarks")
		}
	}
	out := make([]dto.MasalahResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToMasalahListItem(r, 0))
	}
	return helper.JsonList(c, "ok", out, nil)
}

// POST /api/a/masalah
func (mc *MasalahController) Create(c *fiber.Ctx) error {
	var req dto.CreateMasalahRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	ctx := c.UserContext()
	base := helper.Slugify(firstNonEmpty(req.MasalahSlug, req.MasalahTitle), 160)
	slug, err := helper.UniqueSlug(ctx, mc.DB, "masalah", "masalah_slug", base, 160)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
	}

	row := model.MasalahModel{
		MasalahTitle:       strings.TrimSpace(req.MasalahTitle),
		MasalahSlug:        slug,
		MasalahQuestion:    req.MasalahQuestion,
		MasalahAnswer:      req.MasalahAnswer,
		MasalahReferences:  req.MasalahReferences,
		MasalahMufti:       strings.TrimSpace(req.MasalahMufti),
		MasalahCategoryID:  req.MasalahCategoryID,
		MasalahTags:        dto.TagsJSON(req.MasalahTags),
		MasalahIsPublished: req.MasalahIsPublished == nil || *req.MasalahIsPublished,
	}
	if err := mc.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Masalah slug already exists")
		}
		log.Printf("[ERROR] create masalah: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create masalah")
	}
	audit.Record(ctx, mc.Audit, constants.AuditMasalah, "create", helper.GetUserID(c), fiber.Map{"masalah_id": row.MasalahID})
	return helper.JsonCreated(c, "Masalah created", dto.ToMasalahResponse(row))
}

// PATCH /api/a/masalah/:id
func (mc *MasalahController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Masalah")
	if err != nil {
		return err
	}
	var req dto.UpdateMasalahRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	ctx := c.UserContext()

	var row model.MasalahModel
	if err := mc.DB.WithContext(ctx).First(&row, "masalah_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Masalah not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load masalah")
	}

	updates := map[string]any{}
	if req.MasalahTitle != nil {
		updates["masalah_title"] = strings.TrimSpace(*req.MasalahTitle)
	}
	if req.MasalahQuestion != nil {
		updates["masalah_question"] = *req.MasalahQuestion
	}
	if req.MasalahAnswer != nil {
		updates["masalah_answer"] = *req.MasalahAnswer
	}
	if req.MasalahReferences != nil {
		updates["masalah_references"] = *req.MasalahReferences
	}
	if req.MasalahMufti != nil {
		updates["masalah_mufti"] = strings.TrimSpace(*req.MasalahMufti)
	}
	if req.MasalahCategoryID != nil {
		updates["masalah_category_id"] = *req.MasalahCategoryID
	}
	if req.MasalahTags != nil {
		updates["masalah_tags"] = dto.TagsJSON(*req.MasalahTags)
	}
	if req.MasalahIsPublished != nil {
		updates["masalah_is_published"] = *req.MasalahIsPublished
	}
	if req.MasalahSlug != nil {
		base := helper.Slugify(*req.MasalahSlug, 160)
		if !strings.EqualFold(base, row.MasalahSlug) {
			slug, err := helper.UniqueSlug(ctx, mc.DB, "masalah", "masalah_slug", base, 160)
			if err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
			}
			updates["masalah_slug"] = slug
		}
	}

	if len(updates) > 0 {
		if err := mc.DB.WithContext(ctx).Model(&model.MasalahModel{}).
			Where("masalah_id = ?", id).Updates(updates).Error; err != nil {
			log.Printf("[ERROR] update masalah %s: %v", id, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update masalah")
		}
		if err := mc.DB.WithContext(ctx).First(&row, "masalah_id = ?", id).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload masalah")
		}
	}
	audit.Record(ctx, mc.Audit, constants.AuditMasalah, "update", helper.GetUserID(c), fiber.Map{"masalah_id": id})
	return helper.JsonUpdated(c, "Masalah updated", dto.ToMasalahResponse(row))
}

// DELETE /api/a/masalah/:id
func (mc *MasalahController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Masalah")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	res := mc.DB.WithContext(ctx).Delete(&model.MasalahModel{}, "masalah_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete masalah")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Masalah not found")
	}
	if err := mc.Reactions.DeleteForTarget(ctx, nil, constants.TargetMasalah, id); err != nil {
		log.Printf("[WARN] masalah %s reactions cleanup: %v", id, err)
	}
	audit.Record(ctx, mc.Audit, constants.AuditMasalah, "delete", helper.GetUserID(c), fiber.Map{"masalah_id": id})
	return helper.JsonDeleted(c, "Masalah deleted", fiber.Map{"masalah_id": id})
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

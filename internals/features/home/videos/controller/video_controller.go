package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/home/videos/dto"
	"ilmhub_backend/internals/features/home/videos/model"
	reactionService "ilmhub_backend/internals/features/reactions/reactions/service"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/audit"
)

type VideoController struct {
	DB        *gorm.DB
	Audit     audit.Logger
	Reactions *reactionService.ReactionService
}

func NewVideoController(db *gorm.DB, al audit.Logger) *VideoController {
	return &VideoController{DB: db, Audit: al, Reactions: reactionService.NewReactionService(db)}
}

var videoSorts = map[string]string{
	"created_at": "video_created_at",
	"views":      "video_views",
	"title":      "video_title",
}

/* ===================== PUBLIC ===================== */

func (vc *VideoController) list(c *fiber.Ctx, onlyPublished bool, opt helper.Options) error {
	p := helper.ParseFiber(c, "created_at", "desc", opt)
	q := vc.DB.WithContext(c.UserContext()).Model(&model.VideoModel{})
	if onlyPublished {
		q = q.Where("video_is_published = ?", true)
	}
	if p.Q != "" {
		like := p.LikePattern()
		q = q.Where("LOWER(video_title) LIKE ? OR LOWER(video_speaker) LIKE ?", like, like)
	}
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "category_id must be a uuid")
		}
		q = q.Where("video_category_id = ?", id)
	}
	if s := strings.TrimSpace(c.Query("speaker")); s != "" {
		q = q.Where("LOWER(video_speaker) = ?", strings.ToLower(s))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count videos")
	}
	var rows []model.VideoModel
	if err := q.Order(p.OrderClause(videoSorts, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list videos: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch videos")
	}

	likes, err := vc.Reactions.Counts(c.UserContext(), constants.ReactionLike, constants.TargetVideo, videoIDs(rows))
	if err != nil {
		log.Printf("[WARN] video like counts: %v", err)
	}
	return helper.JsonList(c, "ok", dto.ToVideoResponseList(rows, likes), helper.BuildPagination(total, p))
}

// GET /api/public/videos
func (vc *VideoController) ListPublic(c *fiber.Ctx) error {
	return vc.list(c, true, helper.DefaultOpts)
}

// GET /api/a/videos
func (vc *VideoController) ListAdmin(c *fiber.Ctx) error {
	return vc.list(c, false, helper.AdminOpts)
}

// GET /api/public/videos/:key (uuid or slug); counts a view.
func (vc *VideoController) Detail(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Params("key"))
	db := vc.DB.WithContext(c.UserContext())
	q := db.Where("video_is_published = ?", true)
	if id, err := uuid.Parse(key); err == nil {
		q = q.Where("video_id = ?", id)
	} else {
		q = q.Where("LOWER(video_slug) = ?", strings.ToLower(key))
	}

	var row model.VideoModel
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Video not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load video")
	}

	if err := db.Model(&model.VideoModel{}).Where("video_id = ?", row.VideoID).
		UpdateColumn("video_views", gorm.Expr("video_views + ?", 1)).Error; err != nil {
		log.Printf("[WARN] video views %s: %v", row.VideoID, err)
	} else {
		row.VideoViews++
	}

	out := dto.ToVideoResponse(row)
	if n, err := vc.Reactions.Count(c.UserContext(), constants.ReactionLike, constants.TargetVideo, row.VideoID); err == nil {
		out.VideoLikeCount = n
	}
	return helper.JsonOK(c, "ok", out)
}

/* ===================== USER ===================== */

// GET /api/u/videos/bookmarks
func (vc *VideoController) MyBookmarks(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	ids, err := vc.Reactions.ActiveTargetIDs(c.UserContext(), constants.ReactionBookmark, constants.TargetVideo, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch bookmarks")
	}
	rows := []model.VideoModel{}
	if len(ids) > 0 {
		if err := vc.DB.WithContext(c.UserContext()).
			Where("video_id IN ? AND video_is_published = ?", ids, true).
			Find(&rows).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch bookmarks")
		}
	}
	// keep bookmark order (latest first)
	byID := make(map[uuid.UUID]model.VideoModel, len(rows))
	for _, r := range rows {
		byID[r.VideoID] = r
	}
	ordered := make([]model.VideoModel, 0, len(rows))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return helper.JsonList(c, "ok", dto.ToVideoResponseList(ordered, nil), nil)
}

/* ===================== ADMIN ===================== */

// POST /api/a/videos
func (vc *VideoController) Create(c *fiber.Ctx) error {
	var req dto.CreateVideoRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	ytID, ok := dto.ParseYoutubeID(req.VideoYoutube)
	if !ok {
		return helper.JsonValidationError(c, map[string][]string{"video_youtube": {"must be a youtube id or url"}})
	}

	ctx := c.UserContext()
	base := helper.Slugify(firstNonEmpty(req.VideoSlug, req.VideoTitle), 160)
	slug, err := helper.UniqueSlug(ctx, vc.DB, "videos", "video_slug", base, 160)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
	}

	row := model.VideoModel{
		VideoTitle:       strings.TrimSpace(req.VideoTitle),
		VideoSlug:        slug,
		VideoDescription: req.VideoDescription,
		VideoYoutubeID:   ytID,
		VideoSpeaker:     strings.TrimSpace(req.VideoSpeaker),
		VideoCategoryID:  req.VideoCategoryID,
		VideoDuration:    req.VideoDuration,
		VideoIsPublished: req.VideoIsPublished == nil || *req.VideoIsPublished,
	}
	if err := vc.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Video slug already exists")
		}
		log.Printf("[ERROR] create video: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create video")
	}
	audit.Record(ctx, vc.Audit, constants.AuditVideo, "create", helper.GetUserID(c), fiber.Map{"video_id": row.VideoID})
	return helper.JsonCreated(c, "Video created", dto.ToVideoResponse(row))
}

// PATCH /api/a/videos/:id
func (vc *VideoController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Video")
	if err != nil {
		return err
	}
	var req dto.UpdateVideoRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}

	ctx := c.UserContext()
	var row model.VideoModel
	if err := vc.DB.WithContext(ctx).First(&row, "video_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Video not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load video")
	}

	updates := map[string]any{}
	if req.VideoTitle != nil {
		updates["video_title"] = strings.TrimSpace(*req.VideoTitle)
	}
	if req.VideoDescription != nil {
		updates["video_description"] = *req.VideoDescription
	}
	if req.VideoSpeaker != nil {
		updates["video_speaker"] = strings.TrimSpace(*req.VideoSpeaker)
	}
	if req.VideoCategoryID != nil {
		updates["video_category_id"] = *req.VideoCategoryID
	}
	if req.VideoDuration != nil {
		updates["video_duration"] = *req.VideoDuration
	}
	if req.VideoIsPublished != nil {
		updates["video_is_published"] = *req.VideoIsPublished
	}
	if req.VideoYoutube != nil {
		ytID, ok := dto.ParseYoutubeID(*req.VideoYoutube)
		if !ok {
			return helper.JsonValidationError(c, map[string][]string{"video_youtube": {"must be a youtube id or url"}})
		}
		updates["video_youtube_id"] = ytID
	}
	if req.VideoSlug != nil {
		base := helper.Slugify(*req.VideoSlug, 160)
		if !strings.EqualFold(base, row.VideoSlug) {
			slug, err := helper.UniqueSlug(ctx, vc.DB, "videos", "video_slug", base, 160)
			if err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
			}
			updates["video_slug"] = slug
		}
	}

	if len(updates) > 0 {
		if err := vc.DB.WithContext(ctx).Model(&model.VideoModel{}).
			Where("video_id = ?", id).Updates(updates).Error; err != nil {
			log.Printf("[ERROR] update video %s: %v", id, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update video")
		}
		if err := vc.DB.WithContext(ctx).First(&row, "video_id = ?", id).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload video")
		}
	}
	audit.Record(ctx, vc.Audit, constants.AuditVideo, "update", helper.GetUserID(c), fiber.Map{"video_id": id})
	return helper.JsonUpdated(c, "Video updated", dto.ToVideoResponse(row))
}

// DELETE /api/a/videos/:id
func (vc *VideoController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Video")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	res := vc.DB.WithContext(ctx).Delete(&model.VideoModel{}, "video_id = ?", id)
	if res.Error != nil {
		log.Printf("[ERROR] delete video %s: %v", id, res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete video")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Video not found")
	}
	if err := vc.Reactions.DeleteForTarget(ctx, nil, constants.TargetVideo, id); err != nil {
		log.Printf("[WARN] video %s reactions cleanup: %v", id, err)
	}
	audit.Record(ctx, vc.Audit, constants.AuditVideo, "delete", helper.GetUserID(c), fiber.Map{"video_id": id})
	return helper.JsonDeleted(c, "Video deleted", fiber.Map{"video_id": id})
}

func videoIDs(rows []model.VideoModel) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.VideoID)
	}
	return ids
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

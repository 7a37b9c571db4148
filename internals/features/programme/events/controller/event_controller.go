package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/programme/events/dto"
	"ilmhub_backend/internals/features/programme/events/model"
	reactionService "ilmhub_backend/internals/features/reactions/reactions/service"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/audit"
)

type EventController struct {
	DB        *gorm.DB
	Audit     audit.Logger
	Reactions *reactionService.ReactionService
	Loc       *time.Location
	Now       func() time.Time
}

func NewEventController(db *gorm.DB, al audit.Logger, loc *time.Location) *EventController {
	if loc == nil {
		loc = time.UTC
	}
	return &EventController{DB: db, Audit: al, Reactions: reactionService.NewReactionService(db), Loc: loc, Now: func() time.Time { return time.Now().UTC() }}
}

var eventSorts = map[string]string{
	"start_at":   "event_start_at",
	"created_at": "event_created_at",
	"title":      "event_title",
}

func (ec *EventController) list(c *fiber.Ctx, opt helper.Options) error {
	p := helper.ParseFiber(c, "start_at", "asc", opt)
	q := ec.DB.WithContext(c.UserContext()).Model(&model.EventModel{})

	if p.Q != "" {
		like := p.LikePattern()
		q = q.Where("LOWER(event_title) LIKE ? OR LOWER(event_speaker) LIKE ? OR LOWER(event_location) LIKE ?", like, like, like)
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("status"))); s != "" {
		q = q.Where("event_status = ?", s)
	}
	if v := strings.ToLower(c.Query("upcoming")); v == "true" || v == "1" {
		q = q.Where("event_start_at >= ? AND event_status NOT IN ?", ec.Now(),
			[]string{model.StatusCompleted, model.StatusCancelled})
	}
	if v := strings.ToLower(c.Query("weekly")); v == "true" || v == "1" {
		q = q.Where("event_is_weekly = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count events")
	}
	var rows []model.EventModel
	if err := q.Order(p.OrderClause(eventSorts, "start_at")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list events: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}

	interested, err := ec.Reactions.Counts(c.UserContext(), constants.ReactionInterest, constants.TargetEvent, eventIDs(rows))
	if err != nil {
		log.Printf("[WARN] event interest counts: %v", err)
	}
	return helper.JsonList(c, "ok", dto.ToEventResponseList(rows, interested), helper.BuildPagination(total, p))
}

// GET /api/public/events?status=&upcoming=true
func (ec *EventController) ListPublic(c *fiber.Ctx) error {
	return ec.list(c, helper.DefaultOpts)
}

// GET /api/a/events
func (ec *EventController) ListAdmin(c *fiber.Ctx) error {
	return ec.list(c, helper.AdminOpts)
}

// GET /api/public/events/:key (uuid or slug)
func (ec *EventController) Detail(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Params("key"))
	q := ec.DB.WithContext(c.UserContext())
	if id, err := uuid.Parse(key); err == nil {
		q = q.Where("event_id = ?", id)
	} else {
		q = q.Where("LOWER(event_slug) = ?", strings.ToLower(key))
	}
	var row model.EventModel
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load event")
	}
	out := dto.ToEventResponse(row)
	if n, err := ec.Reactions.Count(c.UserContext(), constants.ReactionInterest, constants.TargetEvent, row.EventID); err == nil {
		out.InterestedCount = n
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/u/events/interested
func (ec *EventController) MyInterested(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	ids, err := ec.Reactions.ActiveTargetIDs(c.UserContext(), constants.ReactionInterest, constants.TargetEvent, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}
	rows := []model.EventModel{}
	if len(ids) > 0 {
		if err := ec.DB.WithContext(c.UserContext()).
			Where("event_id IN ?", ids).
			Order("event_start_at ASC").
			Find(&rows).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
		}
	}
	return helper.JsonList(c, "ok", dto.ToEventResponseList(rows, nil), nil)
}

/* ===================== ADMIN ===================== */

func endsBeforeStart(start time.Time, end *time.Time) bool {
	return end != nil && !end.After(start)
}

// POST /api/a/events
func (ec *EventController) Create(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	if endsBeforeStart(req.EventStartAt, req.EventEndAt) {
		return helper.JsonValidationError(c, map[string][]string{"event_end_at": {"must be after event_start_at"}})
	}

	ctx := c.UserContext()
	base := helper.Slugify(firstNonEmpty(req.EventSlug, req.EventTitle), 160)
	slug, err := helper.UniqueSlug(ctx, ec.DB, "events", "event_slug", base, 160)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
	}

	row := model.EventModel{
		EventTitle:       strings.TrimSpace(req.EventTitle),
		EventSlug:        slug,
		EventDescription: req.EventDescription,
		EventLocation:    strings.TrimSpace(req.EventLocation),
		EventImageURL:    req.EventImageURL,
		EventSpeaker:     strings.TrimSpace(req.EventSpeaker),
		EventStartAt:     req.EventStartAt,
		EventEndAt:       req.EventEndAt,
		EventStatus:      req.EventStatus,
		EventIsWeekly:    req.EventIsWeekly,
		EventWeekday:     int(req.EventStartAt.In(ec.Loc).Weekday()),
	}
	if err := ec.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Event slug already exists")
		}
		log.Printf("[ERROR] create event: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create event")
	}
	audit.Record(ctx, ec.Audit, constants.AuditEvent, "create", helper.GetUserID(c), fiber.Map{"event_id": row.EventID})
	return helper.JsonCreated(c, "Event created", dto.ToEventResponse(row))
}

// PATCH /api/a/events/:id
func (ec *EventController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Event")
	if err != nil {
		return err
	}
	var req dto.UpdateEventRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}

	ctx := c.UserContext()
	var row model.EventModel
	if err := ec.DB.WithContext(ctx).First(&row, "event_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load event")
	}

	start, end := row.EventStartAt, row.EventEndAt
	updates := map[string]any{}
	if req.EventTitle != nil {
		updates["event_title"] = strings.TrimSpace(*req.EventTitle)
	}
	if req.EventDescription != nil {
		updates["event_description"] = *req.EventDescription
	}
	if req.EventLocation != nil {
		updates["event_location"] = strings.TrimSpace(*req.EventLocation)
	}
	if req.EventImageURL != nil {
		updates["event_image_url"] = *req.EventImageURL
	}
	if req.EventSpeaker != nil {
		updates["event_speaker"] = strings.TrimSpace(*req.EventSpeaker)
	}
	if req.EventStatus != nil {
		updates["event_status"] = *req.EventStatus
	}
	if req.EventIsWeekly != nil {
		updates["event_is_weekly"] = *req.EventIsWeekly
	}
	if req.EventStartAt != nil {
		start = *req.EventStartAt
		updates["event_start_at"] = start
		updates["event_weekday"] = int(start.In(ec.Loc).Weekday())
		// a moved event is reminded again
		updates["event_daily_reminder_sent_at"] = nil
		updates["event_hourly_reminder_sent_at"] = nil
	}
	if req.EventEndAt != nil {
		end = req.EventEndAt
		updates["event_end_at"] = *req.EventEndAt
	}
	if endsBeforeStart(start, end) {
		return helper.JsonValidationError(c, map[string][]string{"event_end_at": {"must be after event_start_at"}})
	}
	if req.EventSlug != nil {
		base := helper.Slugify(*req.EventSlug, 160)
		if !strings.EqualFold(base, row.EventSlug) {
			slug, err := helper.UniqueSlug(ctx, ec.DB, "events", "event_slug", base, 160)
			if err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
			}
			updates["event_slug"] = slug
		}
	}

	if len(updates) > 0 {
		if err := ec.DB.WithContext(ctx).Model(&model.EventModel{}).
			Where("event_id = ?", id).Updates(updates).Error; err != nil {
			log.Printf("[ERROR] update event %s: %v", id, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update event")
		}
		if err := ec.DB.WithContext(ctx).First(&row, "event_id = ?", id).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload event")
		}
	}
	audit.Record(ctx, ec.Audit, constants.AuditEvent, "update", helper.GetUserID(c), fiber.Map{"event_id": id})
	return helper.JsonUpdated(c, "Event updated", dto.ToEventResponse(row))
}

// DELETE /api/a/events/:id
func (ec *EventController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Event")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	res := ec.DB.WithContext(ctx).Delete(&model.EventModel{}, "event_id = ?", id)
	if res.Error != nil {
		log.Printf("[ERROR] delete event %s: %v", id, res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete event")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
	}
	if err := ec.Reactions.DeleteForTarget(ctx, nil, constants.TargetEvent, id); err != nil {
		log.Printf("[WARN] event %s reactions cleanup: %v", id, err)
	}
	audit.Record(ctx, ec.Audit, constants.AuditEvent, "delete", helper.GetUserID(c), fiber.Map{"event_id": id})
	return helper.JsonDeleted(c, "Event deleted", fiber.Map{"event_id": id})
}

func eventIDs(rows []model.EventModel) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.EventID)
	}
	return ids
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

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
	"ilmhub_backend/internals/features/home/questions/dto"
	"ilmhub_backend/internals/features/home/questions/model"
	reactionService "ilmhub_backend/internals/features/reactions/reactions/service"
	userModel "ilmhub_backend/internals/features/users/users/model"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/audit"
	"ilmhub_backend/internals/helpers/mailer"
)

type QuestionController struct {
	DB        *gorm.DB
	Audit     audit.Logger
	Mailer    mailer.Mailer
	Reactions *reactionService.ReactionService

	AppName    string
	AppBaseURL string
}

func NewQuestionController(db *gorm.DB, al audit.Logger, m mailer.Mailer, appName, appBaseURL string) *QuestionController {
	return &QuestionController{
		DB:         db,
		Audit:      al,
		Mailer:     m,
		Reactions:  reactionService.NewReactionService(db),
		AppName:    appName,
		AppBaseURL: strings.TrimRight(appBaseURL, "/"),
	}
}

var questionSorts = map[string]string{
	"created_at":  "question_created_at",
	"answered_at": "question_answered_at",
}

func (qc *QuestionController) load(c *fiber.Ctx, id uuid.UUID) (*model.QuestionModel, error) {
	var row model.QuestionModel
	if err := qc.DB.WithContext(c.UserContext()).First(&row, "question_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Question not found")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load question")
	}
	return &row, nil
}

/* ===================== USER ===================== */

// POST /api/u/questions
func (qc *QuestionController) Create(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreateQuestionRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}

	row := model.QuestionModel{
		QuestionUserID:   userID,
		QuestionTitle:    strings.TrimSpace(req.QuestionTitle),
		QuestionBody:     strings.TrimSpace(req.QuestionBody),
		QuestionStatus:   model.StatusPending,
		QuestionIsPublic: req.QuestionIsPublic == nil || *req.QuestionIsPublic,
	}
	if err := qc.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		log.Printf("[ERROR] create question: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to submit question")
	}
	return helper.JsonCreated(c, "Question submitted", dto.ToQuestionResponse(row))
}

// GET /api/u/questions
func (qc *QuestionController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	q := qc.DB.WithContext(c.UserContext()).Model(&model.QuestionModel{}).
		Where("question_user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count questions")
	}
	var rows []model.QuestionModel
	if err := q.Order(p.OrderClause(questionSorts, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch questions")
	}
	out := make([]dto.QuestionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToQuestionResponse(r))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPagination(total, p))
}

/* ===================== PUBLIC ===================== */

func publicScope(q *gorm.DB) *gorm.DB {
	return q.Where("question_status = ? AND question_is_public = ?", model.StatusAnswered, true)
}

// GET /api/public/questions
func (qc *QuestionController) ListPublic(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "answered_at", "desc", helper.DefaultOpts)
	q := qc.DB.WithContext(c.UserContext()).Model(&model.QuestionModel{}).Scopes(publicScope)
	if p.Q != "" {
		like := p.LikePattern()
		q = q.Where("LOWER(question_title) LIKE ? OR LOWER(question_body) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count questions")
	}
	var rows []model.QuestionModel
	if err := q.Order(p.OrderClause(questionSorts, "answered_at")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch questions")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.QuestionID)
	}
	likes, err := qc.Reactions.Counts(c.UserContext(), constants.ReactionLike, constants.TargetQuestion, ids)
	if err != nil {
		log.Printf("[WARN] question like counts: %v", err)
	}
	out := make([]dto.QuestionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToPublicQuestion(r, likes[r.QuestionID]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPagination(total, p))
}

// GET /api/public/questions/:id
func (qc *QuestionController) DetailPublic(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Question")
	if err != nil {
		return err
	}
	var row model.QuestionModel
	if err := qc.DB.WithContext(c.UserContext()).Scopes(publicScope).
		First(&row, "question_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Question not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load question")
	}
	n, _ := qc.Reactions.Count(c.UserContext(), constants.ReactionLike, constants.TargetQuestion, id)
	return helper.JsonOK(c, "ok", dto.ToPublicQuestion(row, n))
}

/* ===================== ADMIN ===================== */

// GET /api/a/questions?status=pending
func (qc *QuestionController) ListAdmin(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	q := qc.DB.WithContext(c.UserContext()).Model(&model.QuestionModel{})
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		q = q.Where("question_status = ?", s)
	}
	if p.Q != "" {
		like := p.LikePattern()
		q = q.Where("LOWER(question_title) LIKE ? OR LOWER(question_body) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count questions")
	}
	var rows []model.QuestionModel
	if err := q.Order(p.OrderClause(questionSorts, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch questions")
	}
	out := make([]dto.QuestionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToQuestionResponse(r))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPagination(total, p))
}

// PATCH /api/a/questions/:id/answer
func (qc *QuestionController) Answer(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Question")
	if err != nil {
		return err
	}
	var req dto.AnswerQuestionRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	row, err := qc.load(c, id)
	if row == nil {
		return err
	}

	ctx := c.UserContext()
	adminID := helper.GetUserID(c)
	now := time.Now()
	firstAnswer := row.QuestionStatus != model.StatusAnswered
	updates := map[string]any{
		"question_answer":        strings.TrimSpace(req.QuestionAnswer),
		"question_status":        model.StatusAnswered,
		"question_answered_by":   adminID,
		"question_answered_at":   now,
		"question_reject_reason": "",
	}
	if req.QuestionIsPublic != nil {
		updates["question_is_public"] = *req.QuestionIsPublic
	}
	if err := qc.DB.WithContext(ctx).Model(&model.QuestionModel{}).
		Where("question_id = ?", id).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] answer question %s: %v", id, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to answer question")
	}
	if err := qc.DB.WithContext(ctx).First(row, "question_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload question")
	}

	if firstAnswer {
		qc.notifyAsker(c, row)
	}
	audit.Record(ctx, qc.Audit, constants.AuditQuestion, "answer", adminID, fiber.Map{"question_id": id})
	return helper.JsonUpdated(c, "Question answered", dto.ToQuestionResponse(*row))
}

func (qc *QuestionController) notifyAsker(c *fiber.Ctx, q *model.QuestionModel) {
	var u userModel.UserModel
	if err := qc.DB.WithContext(c.UserContext()).Select("id", "email").
		First(&u, "id = ?", q.QuestionUserID).Error; err != nil || u.Email == "" {
		log.Printf("[WARN] question %s: asker %s has no email on file", q.QuestionID, q.QuestionUserID)
		return
	}
	html, err := mailer.Render(mailer.TplQuestionAnswered, fiber.Map{
		"AppName": qc.AppName,
		"Title":   q.QuestionTitle,
		"Answer":  q.QuestionAnswer,
		"Link":    qc.AppBaseURL + "/questions/" + q.QuestionID.String(),
	})
	if err != nil {
		log.Printf("[ERROR] render question email: %v", err)
		return
	}
	mailer.SendLogged(c.UserContext(), qc.Mailer, mailer.Message{
		To:      []string{u.Email},
		Subject: "Your question has been answered",
		HTML:    html,
	})
}

// PATCH /api/a/questions/:id/reject
func (qc *QuestionController) Reject(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Question")
	if err != nil {
		return err
	}
	var req dto.RejectQuestionRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	row, err := qc.load(c, id)
	if row == nil {
		return err
	}
	if err := qc.DB.WithContext(c.UserContext()).Model(row).Updates(map[string]any{
		"question_status":        model.StatusRejected,
		"question_reject_reason": strings.TrimSpace(req.QuestionRejectReason),
	}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reject question")
	}
	row.QuestionStatus = model.StatusRejected
	row.QuestionRejectReason = strings.TrimSpace(req.QuestionRejectReason)
	audit.Record(c.UserContext(), qc.Audit, constants.AuditQuestion, "reject", helper.GetUserID(c), fiber.Map{"question_id": id})
	return helper.JsonUpdated(c, "Question rejected", dto.ToQuestionResponse(*row))
}

// DELETE /api/a/questions/:id
func (qc *QuestionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Question")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	res := qc.DB.WithContext(ctx).Delete(&model.QuestionModel{}, "question_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete question")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Question not found")
	}
	if err := qc.Reactions.DeleteForTarget(ctx, nil, constants.TargetQuestion, id); err != nil {
		log.Printf("[WARN] question %s reactions cleanup: %v", id, err)
	}
	audit.Record(ctx, qc.Audit, constants.AuditQuestion, "delete", helper.GetUserID(c), fiber.Map{"question_id": id})
	return helper.JsonDeleted(c, "Question deleted", fiber.Map{"question_id": id})
}

package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/institutions/institutions/dto"
	"ilmhub_backend/internals/features/institutions/institutions/model"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/audit"
)

type InstitutionController struct {
	DB    *gorm.DB
	Audit audit.Logger
}

func NewInstitutionController(db *gorm.DB, al audit.Logger) *InstitutionController {
	return &InstitutionController{DB: db, Audit: al}
}

// GET /api/public/institutions?type=&district=&division=&verified=&q=
func (ic *InstitutionController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	q := ic.DB.WithContext(c.UserContext()).Model(&model.InstitutionModel{})

	if p.Q != "" {
		like := p.LikePattern()
		q = q.Where("LOWER(institution_name) LIKE ? OR LOWER(institution_address) LIKE ?", like, like)
	}
	if t := strings.ToLower(strings.TrimSpace(c.Query("type"))); t != "" {
		q = q.Where("institution_type = ?", t)
	}
	if d := strings.TrimSpace(c.Query("district")); d != "" {
		q = q.Where("LOWER(institution_district) = ?", strings.ToLower(d))
	}
	if d := strings.TrimSpace(c.Query("division")); d != "" {
		q = q.Where("LOWER(institution_division) = ?", strings.ToLower(d))
	}
	if v := strings.ToLower(c.Query("verified")); v == "true" || v == "1" {
		q = q.Where("institution_is_verified = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count institutions")
	}
	var rows []model.InstitutionModel
	order := p.OrderClause(map[string]string{
		"name":       "institution_name",
		"created_at": "institution_created_at",
		"district":   "institution_district",
	}, "name")
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list institutions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch institutions")
	}
	out := make([]dto.InstitutionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToInstitutionListItem(r))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPagination(total, p))
}

// GET /api/public/institutions/:slug
func (ic *InstitutionController) Detail(c *fiber.Ctx) error {
	slug := strings.ToLower(strings.TrimSpace(c.Params("slug")))
	var row model.InstitutionModel
	if err := ic.DB.WithContext(c.UserContext()).
		Where("LOWER(institution_slug) = ?", slug).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Institution not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load institution")
	}
	return helper.JsonOK(c, "ok", dto.ToInstitutionResponse(row))
}

// POST /api/a/institutions
func (ic *InstitutionController) Create(c *fiber.Ctx) error {
	var req dto.CreateInstitutionRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	ctx := c.UserContext()
	base := helper.Slugify(firstNonEmpty(req.InstitutionSlug, req.InstitutionName), 180)
	slug, err := helper.UniqueSlug(ctx, ic.DB, "institutions", "institution_slug", base, 180)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
	}

	row := model.InstitutionModel{
		InstitutionName:        strings.TrimSpace(req.InstitutionName),
		InstitutionSlug:        slug,
		InstitutionType:        req.InstitutionType,
		InstitutionDescription: req.InstitutionDescription,
		InstitutionAddress:     strings.TrimSpace(req.InstitutionAddress),
		InstitutionDistrict:    strings.TrimSpace(req.InstitutionDistrict),
		InstitutionDivision:    strings.TrimSpace(req.InstitutionDivision),
		InstitutionLatitude:    req.InstitutionLatitude,
		InstitutionLongitude:   req.InstitutionLongitude,
		InstitutionPhone:       strings.TrimSpace(req.InstitutionPhone),
		InstitutionEmail:       strings.ToLower(strings.TrimSpace(req.InstitutionEmail)),
		InstitutionWebsite:     req.InstitutionWebsite,
		InstitutionImageURL:    req.InstitutionImageURL,
		InstitutionIsVerified:  req.InstitutionIsVerified,
	}
	if err := ic.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Institution slug already exists")
		}
		log.Printf("[ERROR] create institution: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create institution")
	}
	audit.Record(ctx, ic.Audit, constants.AuditInstitution, "create", helper.GetUserID(c), fiber.Map{"institution_id": row.InstitutionID})
	return helper.JsonCreated(c, "Institution created", dto.ToInstitutionResponse(row))
}

// PATCH /api/a/institutions/:id
func (ic *InstitutionController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Institution")
	if err != nil {
		return err
	}
	var req dto.UpdateInstitutionRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	ctx := c.UserContext()
	var row model.InstitutionModel
	if err := ic.DB.WithContext(ctx).First(&row, "institution_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Institution not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load institution")
	}

	updates := map[string]any{}
	setStr := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	setStr("institution_name", req.InstitutionName)
	setStr("institution_type", req.InstitutionType)
	setStr("institution_description", req.InstitutionDescription)
	setStr("institution_address", req.InstitutionAddress)
	setStr("institution_district", req.InstitutionDistrict)
	setStr("institution_division", req.InstitutionDivision)
	setStr("institution_phone", req.InstitutionPhone)
	setStr("institution_website", req.InstitutionWebsite)
	setStr("institution_image_url", req.InstitutionImageURL)
	if req.InstitutionEmail != nil {
		updates["institution_email"] = strings.ToLower(strings.TrimSpace(*req.InstitutionEmail))
	}
	if req.InstitutionLatitude != nil {
		updates["institution_latitude"] = *req.InstitutionLatitude
	}
	if req.InstitutionLongitude != nil {
		updates["institution_longitude"] = *req.InstitutionLongitude
	}
	if req.InstitutionIsVerified != nil {
		updates["institution_is_verified"] = *req.InstitutionIsVerified
	}
	if req.InstitutionSlug != nil {
		base := helper.Slugify(*req.InstitutionSlug, 180)
		if !strings.EqualFold(base, row.InstitutionSlug) {
			slug, err := helper.UniqueSlug(ctx, ic.DB, "institutions", "institution_slug", base, 180)
			if err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
			}
			updates["institution_slug"] = slug
		}
	}

	if len(updates) > 0 {
		if err := ic.DB.WithContext(ctx).Model(&model.InstitutionModel{}).
			Where("institution_id = ?", id).Updates(updates).Error; err != nil {
			log.Printf("[ERROR] update institution %s: %v", id, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update institution")
		}
		if err := ic.DB.WithContext(ctx).First(&row, "institution_id = ?", id).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload institution")
		}
	}
	audit.Record(ctx, ic.Audit, constants.AuditInstitution, "update", helper.GetUserID(c), fiber.Map{"institution_id": id})
	return helper.JsonUpdated(c, "Institution updated", dto.ToInstitutionResponse(row))
}

// DELETE /api/a/institutions/:id
func (ic *InstitutionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Institution")
	if err != nil {
		return err
	}
	res := ic.DB.WithContext(c.UserContext()).Delete(&model.InstitutionModel{}, "institution_id = ?", id)
	if res.Error != nil {
		log.Printf("[ERROR] delete institution %s: %v", id, res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete institution")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Institution not found")
	}
	audit.Record(c.UserContext(), ic.Audit, constants.AuditInstitution, "delete", helper.GetUserID(c), fiber.Map{"institution_id": id})
	return helper.JsonDeleted(c, "Institution deleted", fiber.Map{"institution_id": id})
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/library/categories/dto"
	"ilmhub_backend/internals/features/library/categories/model"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/audit"
)

type CategoryController struct {
	DB    *gorm.DB
	Audit audit.Logger
}

func NewCategoryController(db *gorm.DB, al audit.Logger) *CategoryController {
	return &CategoryController{DB: db, Audit: al}
}

func kindScope(kind string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB { return q.Where("category_kind = ?", kind) }
}

// GET /api/public/categories?kind=book
func (cc *CategoryController) List(c *fiber.Ctx) error {
	q := cc.DB.WithContext(c.UserContext()).Model(&model.CategoryModel{})
	if kind := strings.TrimSpace(c.Query("kind")); kind != "" {
		q = q.Where("category_kind = ?", kind)
	}
	var rows []model.CategoryModel
	if err := q.Order("category_name ASC").Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list categories: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch categories")
	}
	return helper.JsonList(c, "ok", dto.ToCategoryResponseList(rows), nil)
}

// POST /api/a/categories
func (cc *CategoryController) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}

	base := helper.Slugify(firstNonEmpty(req.CategorySlug, req.CategoryName), 140)
	slug, err := helper.UniqueSlug(c.UserContext(), cc.DB, "categories", "category_slug", base, 140, kindScope(req.CategoryKind))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
	}

	row := model.CategoryModel{
		CategoryName:        strings.TrimSpace(req.CategoryName),
		CategorySlug:        slug,
		CategoryKind:        req.CategoryKind,
		CategoryDescription: req.CategoryDescription,
	}
	if err := cc.DB.WithContext(c.UserContext()).Create(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Category slug already exists")
		}
		log.Printf("[ERROR] create category: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create category")
	}
	audit.Record(c.UserContext(), cc.Audit, constants.AuditCategory, "create", helper.GetUserID(c), row)
	return helper.JsonCreated(c, "Category created", dto.ToCategoryResponse(row))
}

// PATCH /api/a/categories/:id
func (cc *CategoryController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Category")
	if err != nil {
		return err
	}
	var req dto.UpdateCategoryRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}

	var row model.CategoryModel
	if err := cc.DB.WithContext(c.UserContext()).First(&row, "category_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Category not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load category")
	}

	updates := map[string]any{}
	if req.CategoryName != nil {
		updates["category_name"] = strings.TrimSpace(*req.CategoryName)
	}
	if req.CategoryDescription != nil {
		updates["category_description"] = *req.CategoryDescription
	}
	if req.CategorySlug != nil {
		base := helper.Slugify(*req.CategorySlug, 140)
		if !strings.EqualFold(base, row.CategorySlug) {
			slug, err := helper.UniqueSlug(c.UserContext(), cc.DB, "categories", "category_slug", base, 140, kindScope(row.CategoryKind))
			if err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
			}
			updates["category_slug"] = slug
		}
	}
	if len(updates) > 0 {
		if err := cc.DB.WithContext(c.UserContext()).Model(&row).Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.JsonError(c, fiber.StatusConflict, "Category slug already exists")
			}
			log.Printf("[ERROR] update category %s: %v", id, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update category")
		}
		if err := cc.DB.WithContext(c.UserContext()).First(&row, "category_id = ?", id).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload category")
		}
	}
	audit.Record(c.UserContext(), cc.Audit, constants.AuditCategory, "update", helper.GetUserID(c), updates)
	return helper.JsonUpdated(c, "Category updated", dto.ToCategoryResponse(row))
}

// DELETE /api/a/categories/:id
func (cc *CategoryController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Category")
	if err != nil {
		return err
	}
	res := cc.DB.WithContext(c.UserContext()).Delete(&model.CategoryModel{}, "category_id = ?", id)
	if res.Error != nil {
		log.Printf("[ERROR] delete category %s: %v", id, res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete category")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Category not found")
	}
	audit.Record(c.UserContext(), cc.Audit, constants.AuditCategory, "delete", helper.GetUserID(c), fiber.Map{"category_id": id})
	return helper.JsonDeleted(c, "Category deleted", fiber.Map{"category_id": id})
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/users/users/dto"
	"ilmhub_backend/internals/features/users/users/model"
	"ilmhub_backend/internals/features/users/users/service"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/audit"
)

type UserController struct {
	DB    *gorm.DB
	Roles service.RoleUpdater
	Audit audit.Logger
}

func NewUserController(db *gorm.DB, roles service.RoleUpdater, al audit.Logger) *UserController {
	if roles == nil {
		roles = service.NopRoleUpdater{}
	}
	return &UserController{DB: db, Roles: roles, Audit: al}
}

// GET /api/u/me
func (uc *UserController) Me(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	var user model.UserModel
	if err := uc.DB.WithContext(c.UserContext()).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not synced yet")
		}
		log.Printf("[ERROR] load me %s: %v", userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(&user))
}

/* ===================== ADMIN ===================== */

var userSorts = map[string]string{
	"created_at": "created_at",
	"email":      "email",
	"first_name": "first_name",
}

// GET /api/a/users?q=&is_admin=
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	q := uc.DB.WithContext(c.UserContext()).Model(&model.UserModel{})
	if p.Q != "" {
		like := p.LikePattern()
		q = q.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}
	if v := strings.TrimSpace(c.Query("is_admin")); v != "" {
		q = q.Where("is_admin = ?", v == "true" || v == "1")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count users: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count users")
	}
	var users []model.UserModel
	if err := q.Order(p.OrderClause(userSorts, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&users).Error; err != nil {
		log.Printf("[ERROR] list users: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch users")
	}
	return helper.JsonList(c, "ok", dto.FromModelList(users), helper.BuildPagination(total, p))
}

// PATCH /api/a/users/:id/role
func (uc *UserController) UpdateRole(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	var req dto.UpdateRoleRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}

	var user model.UserModel
	if err := uc.DB.WithContext(c.UserContext()).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	if err := uc.Roles.SetAdmin(c.UserContext(), id, *req.IsAdmin); err != nil {
		log.Printf("[ERROR] clerk metadata %s: %v", id, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Failed to update role at identity provider")
	}
	if err := uc.DB.WithContext(c.UserContext()).Model(&user).
		Update("is_admin", *req.IsAdmin).Error; err != nil {
		log.Printf("[ERROR] update role %s: %v", id, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update role")
	}
	user.IsAdmin = *req.IsAdmin

	audit.Record(c.UserContext(), uc.Audit, constants.AuditUser, "role_update", helper.GetUserID(c),
		fiber.Map{"user_id": id, "is_admin": user.IsAdmin})
	return helper.JsonUpdated(c, "Role updated", dto.FromModel(&user))
}

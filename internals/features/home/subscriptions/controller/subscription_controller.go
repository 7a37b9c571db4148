package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/features/home/subscriptions/dto"
	"ilmhub_backend/internals/features/home/subscriptions/model"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/mailer"
)

type SubscriptionController struct {
	DB      *gorm.DB
	Mailer  mailer.Mailer
	AppName string
	// APIBaseURL is where unsubscribe links point; the GET route works without a frontend.
	APIBaseURL string
}

func NewSubscriptionController(db *gorm.DB, m mailer.Mailer, appName, apiBaseURL string) *SubscriptionController {
	return &SubscriptionController{DB: db, Mailer: m, AppName: appName, APIBaseURL: strings.TrimRight(apiBaseURL, "/")}
}

func (sc *SubscriptionController) UnsubscribeLink(token string) string {
	return sc.APIBaseURL + "/api/public/subscriptions/unsubscribe/" + token
}

// welcome tells a new or returning subscriber how to leave again.
func (sc *SubscriptionController) welcome(c *fiber.Ctx, row model.SubscriptionModel) {
	if sc.Mailer == nil {
		return
	}
	html, err := mailer.Render(mailer.TplSubscribed, fiber.Map{
		"AppName":         sc.AppName,
		"Name":            row.SubscriptionName,
		"UnsubscribeLink": sc.UnsubscribeLink(row.SubscriptionToken),
	})
	if err != nil {
		log.Printf("[ERROR] render subscription email: %v", err)
		return
	}
	mailer.SendLogged(c.UserContext(), sc.Mailer, mailer.Message{
		To:      []string{row.SubscriptionEmail},
		Subject: "You are subscribed to " + sc.AppName,
		HTML:    html,
	})
}

// POST /api/public/subscriptions
// Subscribing an address that already exists re-activates it.
func (sc *SubscriptionController) Subscribe(c *fiber.Ctx) error {
	var req dto.SubscribeRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	db := sc.DB.WithContext(c.UserContext())

	var row model.SubscriptionModel
	err := db.Where("subscription_email = ?", email).First(&row).Error
	switch {
	case err == nil:
		wasActive := row.SubscriptionIsActive
		updates := map[string]any{"subscription_is_active": true}
		if name := strings.TrimSpace(req.Name); name != "" {
			updates["subscription_name"] = name
			row.SubscriptionName = name
		}
		if err := db.Model(&row).Updates(updates).Error; err != nil {
			log.Printf("[ERROR] reactivate subscription %s: %v", email, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to subscribe")
		}
		row.SubscriptionIsActive = true
		if !wasActive {
			sc.welcome(c, row)
		}
		return helper.JsonOK(c, "Already subscribed", dto.ToSubscriptionResponse(row))

	case errors.Is(err, gorm.ErrRecordNotFound):
		row = model.SubscriptionModel{
			SubscriptionEmail:    email,
			SubscriptionName:     strings.TrimSpace(req.Name),
			SubscriptionIsActive: true,
		}
		if err := db.Create(&row).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				// lost a race with an identical request
				return helper.JsonOK(c, "Already subscribed", dto.ToSubscriptionResponse(row))
			}
			log.Printf("[ERROR] create subscription %s: %v", email, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to subscribe")
		}
		sc.welcome(c, row)
		return helper.JsonCreated(c, "Subscribed", dto.ToSubscriptionResponse(row))

	default:
		log.Printf("[ERROR] load subscription %s: %v", email, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to subscribe")
	}
}

// GET|POST /api/public/subscriptions/unsubscribe/:token
func (sc *SubscriptionController) Unsubscribe(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	if token == "" {
		return helper.JsonError(c, fiber.StatusNotFound, "Subscription not found")
	}
	res := sc.DB.WithContext(c.UserContext()).
		Model(&model.SubscriptionModel{}).
		Where("subscription_token = ?", token).
		Update("subscription_is_active", false)
	if res.Error != nil {
		log.Printf("[ERROR] unsubscribe: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to unsubscribe")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Subscription not found")
	}
	return helper.JsonOK(c, "Unsubscribed", nil)
}

// GET /api/a/subscriptions?active=true&q=
func (sc *SubscriptionController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)
	q := sc.DB.WithContext(c.UserContext()).Model(&model.SubscriptionModel{})
	if p.Q != "" {
		like := p.LikePattern()
		q = q.Where("LOWER(subscription_email) LIKE ? OR LOWER(subscription_name) LIKE ?", like, like)
	}
	switch strings.ToLower(c.Query("active")) {
	case "true", "1":
		q = q.Where("subscription_is_active = ?", true)
	case "false", "0":
		q = q.Where("subscription_is_active = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count subscriptions")
	}
	var rows []model.SubscriptionModel
	order := p.OrderClause(map[string]string{
		"created_at": "subscription_created_at",
		"email":      "subscription_email",
	}, "created_at")
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list subscriptions: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch subscriptions")
	}
	return helper.JsonList(c, "ok", dto.ToSubscriptionResponseList(rows), helper.BuildPagination(total, p))
}

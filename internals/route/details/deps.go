package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/configs"
	orderController "ilmhub_backend/internals/features/commerce/orders/controller"
	paymentController "ilmhub_backend/internals/features/commerce/payments/controller"
	jobService "ilmhub_backend/internals/features/programme/jobs/service"
	userService "ilmhub_backend/internals/features/users/users/service"
	"ilmhub_backend/internals/helpers/audit"
	"ilmhub_backend/internals/helpers/cache"
	"ilmhub_backend/internals/helpers/mailer"
	helperOSS "ilmhub_backend/internals/helpers/oss"
)

// Deps is everything main builds once and the route groups share.
type Deps struct {
	DB       *gorm.DB
	Conf     configs.AppConfig
	Audit    audit.Logger
	Mailer   mailer.Mailer
	Cache    cache.Cache
	Storage  fiber.Storage // rate limiter storage, nil = in-memory
	Uploader helperOSS.ImageUploader
	Roles    userService.RoleUpdater
	Jobs     *jobService.JobService
	Orders   *orderController.OrderController
	Payments *paymentController.PaymentController
}

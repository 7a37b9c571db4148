package route

import (
	"github.com/gofiber/fiber/v2"

	"ilmhub_backend/internals/features/programme/jobs/controller"
	"ilmhub_backend/internals/features/programme/jobs/service"
	"ilmhub_backend/internals/middlewares/auth"
)

// /api/cron, every endpoint behind Authorization: Bearer $CRON_SECRET
func CronRoutes(r fiber.Router, svc *service.JobService, secret string) {
	ctrl := controller.NewCronController(svc)

	g := r.Group("", auth.CronSecret(secret))
	g.Get("/auto-create-weeklies", ctrl.Job(service.JobAutoCreateWeeklies))
	g.Get("/mark-complete", ctrl.Job(service.JobMarkComplete))
	g.Get("/reminders/daily", ctrl.Job(service.JobRemindersDaily))
	g.Get("/reminders/hourly", ctrl.Job(service.JobRemindersHourly))
	g.Get("/purge-deleted", ctrl.Job(service.JobPurgeDeleted))
}

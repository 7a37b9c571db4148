package details

import (
	"github.com/gofiber/fiber/v2"

	eventRoute "ilmhub_backend/internals/features/programme/events/route"
	cronRoute "ilmhub_backend/internals/features/programme/jobs/route"
	institutionRoute "ilmhub_backend/internals/features/institutions/institutions/route"
)

func ProgrammePublicRoutes(api fiber.Router, d Deps) {
	eventRoute.EventPublicRoutes(api, d.DB, d.Conf.Location())
	institutionRoute.InstitutionPublicRoutes(api, d.DB)
}

func ProgrammeUserRoutes(api fiber.Router, d Deps) {
	eventRoute.EventUserRoutes(api, d.DB, d.Conf.Location())
}

func ProgrammeAdminRoutes(api fiber.Router, d Deps) {
	eventRoute.EventAdminRoutes(api, d.DB, d.Audit, d.Conf.Location())
	institutionRoute.InstitutionAdminRoutes(api, d.DB, d.Audit)
}

// /api/cron (Authorization: Bearer CRON_SECRET)
func CronRoutes(api fiber.Router, d Deps) {
	cronRoute.CronRoutes(api, d.Jobs, d.Conf.CronSecret)
}

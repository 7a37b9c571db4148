package controller

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"ilmhub_backend/internals/features/programme/jobs/service"
	helper "ilmhub_backend/internals/helpers"
)

type CronController struct {
	Svc *service.JobService
}

func NewCronController(svc *service.JobService) *CronController {
	return &CronController{Svc: svc}
}

// Job builds the GET handler for one named job. The run is detached from
// the request deadline and gets the same budget as a scheduled run.
func (cc *CronController) Job(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), service.JobTimeout)
		defer cancel()
		res, err := cc.Svc.Run(ctx, name)
		if err != nil {
			log.Printf("[ERROR] cron %s: %v", name, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Job "+name+" failed")
		}
		return helper.JsonOK(c, name+" done", res)
	}
}

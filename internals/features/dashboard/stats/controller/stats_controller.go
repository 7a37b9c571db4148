package controller

import (
	"log"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"ilmhub_backend/internals/features/dashboard/stats/dto"
	"ilmhub_backend/internals/features/dashboard/stats/service"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/cache"
)

type StatsController struct {
	Stats *service.StatsService
	Cache cache.Cache
}

func NewStatsController(svc *service.StatsService, c cache.Cache) *StatsController {
	return &StatsController{Stats: svc, Cache: c}
}

// GET /api/a/dashboard/stats (?refresh=1 skips the cache)
func (sc *StatsController) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()
	refresh := c.Query("refresh") == "1" || c.Query("refresh") == "true"

	if sc.Cache != nil && !refresh {
		if raw, ok := sc.Cache.Get(ctx, cache.KeyDashboardStats); ok {
			var cached dto.DashboardStats
			if err := sonic.Unmarshal(raw, &cached); err == nil {
				c.Set("X-Cache", "HIT")
				return helper.JsonOK(c, "ok", cached)
			}
		}
	}

	stats, err := sc.Stats.Compute(ctx)
	if err != nil {
		log.Printf("[ERROR] dashboard stats: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute dashboard stats")
	}
	if sc.Cache != nil {
		if raw, err := sonic.Marshal(stats); err == nil {
			sc.Cache.Set(ctx, cache.KeyDashboardStats, raw, cache.TTLDashboard)
		}
	}
	c.Set("X-Cache", "MISS")
	return helper.JsonOK(c, "ok", stats)
}

package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"ilmhub_backend/internals/features/programme/jobs/service"
)

// Schedule maps each job to its cron spec (minute hour dom month dow, in the app timezone).
var Schedule = map[string]string{
	service.JobAutoCreateWeeklies: "5 0 * * *",
	service.JobMarkComplete:       "*/15 * * * *",
	service.JobRemindersDaily:     "0 * * * *",
	service.JobRemindersHourly:    "*/5 * * * *",
	service.JobPurgeDeleted:       "15 2 * * *",
}

// Start registers every job and starts the scheduler. The caller stops it on shutdown.
func Start(svc *service.JobService, loc *time.Location) (*cron.Cron, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	for name, spec := range Schedule {
		name := name
		if _, err := c.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), service.JobTimeout)
			defer cancel()
			if _, err := svc.Run(ctx, name); err != nil {
				log.Printf("[SCHEDULER] %s: %v", name, err)
			}
		}); err != nil {
			return nil, err
		}
	}
	c.Start()
	log.Printf("[SCHEDULER] started %d jobs tz=%s", len(Schedule), loc)
	return c, nil
}

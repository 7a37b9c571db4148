package scheduler

import (
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilmhub_backend/internals/features/programme/jobs/service"
)

func TestSchedule_CoversEveryJob(t *testing.T) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for _, name := range service.JobNames {
		spec, ok := Schedule[name]
		require.True(t, ok, "no schedule for %s", name)
		_, err := parser.Parse(spec)
		assert.NoError(t, err, name)
	}
	assert.Len(t, Schedule, len(service.JobNames))
}

package cron

import (
	"context"
	"time"

	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/dateutil"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/robfig/cron/v3"
)

// AutoOpenTasksJob opens the tasks of every activity day that has started.
// Tasks closed by an admin stay closed.
type AutoOpenTasksJob struct {
	taskRepo repository.TaskRepository
	schedule cron.Schedule
	now      func() time.Time
}

func NewAutoOpenTasksJob(taskRepo repository.TaskRepository, schedule cron.Schedule) *AutoOpenTasksJob {
	return &AutoOpenTasksJob{taskRepo: taskRepo, schedule: schedule, now: time.Now}
}

func (job *AutoOpenTasksJob) Do(ctx context.Context) {
	cfg := xcontext.Configs(ctx).Campaign
	day := dateutil.ActivityDay(cfg.ActivityStart, job.now())
	if day < 1 {
		return
	}

	if day > cfg.TotalDays {
		day = cfg.TotalDays
	}

	n, err := job.taskRepo.OpenUntilDay(ctx, day)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot open tasks until day %d: %v", day, err)
		return
	}

	if n > 0 {
		xcontext.Logger(ctx).Infof("Opened %d tasks until day %d", n, day)
	}
}

func (job *AutoOpenTasksJob) RunNow() bool {
	return true
}

func (job *AutoOpenTasksJob) Next() time.Time {
	return job.schedule.Next(job.now())
}

package cron

import (
	"context"
	"time"

	"github.com/questx-lab/campaign/internal/domain/statistic"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/robfig/cron/v3"
)

// LeaderboardWarmupJob rebuilds the cached ranking so that readers rarely hit
// the database after the cache expires.
type LeaderboardWarmupJob struct {
	leaderboard statistic.Leaderboard
	schedule    cron.Schedule
}

func NewLeaderboardWarmupJob(leaderboard statistic.Leaderboard, schedule cron.Schedule) *LeaderboardWarmupJob {
	return &LeaderboardWarmupJob{leaderboard: leaderboard, schedule: schedule}
}

func (job *LeaderboardWarmupJob) Do(ctx context.Context) {
	job.leaderboard.OnPointsChanged(ctx)

	entries, err := job.leaderboard.GetTop(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot warm up leaderboard: %v", err)
		return
	}

	xcontext.Logger(ctx).Debugf("Leaderboard warmed up with %d entries", len(entries))
}

func (job *LeaderboardWarmupJob) RunNow() bool {
	return true
}

func (job *LeaderboardWarmupJob) Next() time.Time {
	return job.schedule.Next(time.Now())
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/questx-lab/campaign/internal/domain/cron"
	"github.com/questx-lab/campaign/internal/domain/statistic"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := s.loadRedisClient(); err != nil {
		return err
	}

	s.loadRepos()

	cfg := xcontext.Configs(s.ctx).Cron
	cronJobManager := cron.NewCronJobManager()

	if cfg.LeaderboardWarmup != "" {
		schedule, err := cron.ParseSchedule(cfg.LeaderboardWarmup)
		if err != nil {
			return err
		}

		leaderboard := statistic.New(s.userRepo, s.redisClient)
		cronJobManager.Register(cron.NewLeaderboardWarmupJob(leaderboard, schedule))
	}

	if cfg.AutoOpenTasks != "" {
		schedule, err := cron.ParseSchedule(cfg.AutoOpenTasks)
		if err != nil {
			return err
		}

		cronJobManager.Register(cron.NewAutoOpenTasksJob(s.taskRepo, schedule))
	}

	go func() {
		termSignal := make(chan os.Signal, 1)
		signal.Notify(termSignal, syscall.SIGINT, syscall.SIGTERM)
		sig := <-termSignal
		xcontext.Logger(s.ctx).Infof("Got a signal of %s, stopping cron jobs", sig.String())
		cronJobManager.Cancel(s.ctx)
	}()

	cronJobManager.Start(s.ctx)
	return nil
}

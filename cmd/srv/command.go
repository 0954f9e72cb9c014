package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Name = "campaign"
	s.app.Usage = "Seasonal campaign backend"
	s.app.Flags = configFlags()
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it main service included all apis.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Used to open the tasks of started days and warm up the leaderboard cache.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "rollback",
					Usage: "revert the last N migrations instead of applying new ones",
				},
			},
			Description: `Used to apply the embedded versioned migrations to the mysql database.`,
		},
	}
}

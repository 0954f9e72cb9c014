package main

import (
	"github.com/questx-lab/campaign/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadDatabase(); err != nil {
		return err
	}

	if steps := cctx.Int("rollback"); steps > 0 {
		return migration.Rollback(s.ctx, steps)
	}

	return migration.Migrate(s.ctx)
}

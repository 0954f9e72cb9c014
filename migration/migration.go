package migration

import (
	"context"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/questx-lab/campaign/pkg/xcontext"
)

//go:embed mysql/*.sql
var mysqlFS embed.FS

// Migrate applies the embedded versioned migrations to the mysql database of
// ctx. The binary carries the migration files, nothing is read from disk.
func Migrate(ctx context.Context) error {
	m, err := newMigrator(ctx)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}

	xcontext.Logger(ctx).Infof("Database is at version %d (dirty=%t)", version, dirty)
	return nil
}

// Rollback reverts the last steps migrations.
func Rollback(ctx context.Context, steps int) error {
	m, err := newMigrator(ctx)
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func newMigrator(ctx context.Context) (*migrate.Migrate, error) {
	db, err := xcontext.DB(ctx).DB()
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(mysqlFS, "mysql")
	if err != nil {
		return nil, err
	}

	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return nil, err
	}

	return migrate.NewWithInstance("iofs", source, xcontext.Configs(ctx).Database.Database, driver)
}

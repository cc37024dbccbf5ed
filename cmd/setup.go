package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	movies, err := r.store()
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	applied, err := shared.AppliedMigrations(r.db)
	if err != nil {
		return err
	}
	for _, m := range applied {
		r.logger.Debug("migration applied", "version", m.Version, "applied_at", m.AppliedAt)
	}

	count, err := movies.Count()
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s (%d migrations, %d movies)\n", r.config.Database.Path, len(applied), count)
}

// SetupRollback reverts the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.store(); err != nil {
		return err
	}

	if err := shared.RollbackMigration(r.db); err != nil {
		return err
	}

	applied, err := shared.AppliedMigrations(r.db)
	if err != nil {
		return err
	}
	r.logger.Warn("migration rolled back", "remaining", len(applied))
	return r.writePlain("✓ Rolled back one migration (%d remaining)\n", len(applied))
}

// SetupConfig writes the default configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlain("Set credentials.omdb.api_key there, or %s in the environment or a .env file.\n", shared.EnvOMDbAPIKey)
	return nil
}

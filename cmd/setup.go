package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mikueye/mikueye/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Add your osu! API credentials to %s (https://osu.ppy.sh/home/account/edit#oauth)\n", configPath)
	r.writePlain("2. Run 'mikueye auth test' to verify them\n")
	return nil
}

// SetupRollback reverts the most recent schema migration, dropping the
// tracker tables. Requires --yes since tracked sets and history go with them.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: rollback drops the tracker tables, pass --yes to confirm", shared.ErrMissingArgument)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	return r.writePlain("✓ Rolled back the latest migration on %s\n", r.config.Database.Path)
}

// AuthTest performs a credential probe against the osu! token endpoint.
func (r *Runner) AuthTest(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("testing osu! API credentials")

	if err := r.client.TestCredentials(ctx); err != nil {
		if errors.Is(err, shared.ErrMissingCredentials) {
			return fmt.Errorf("%w: set credentials.osu.client_id and client_secret in config.toml", err)
		}
		return fmt.Errorf("credential test failed: %w", err)
	}

	return r.writePlain("✓ Credentials accepted\n")
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
		Commands: []*cli.Command{
			{
				Name:  "rollback",
				Usage: "Revert the latest schema migration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm dropping the tracker tables",
					},
				},
				Action: r.SetupRollback,
			},
		},
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "osu! API authentication",
		Commands: []*cli.Command{
			{
				Name:   "test",
				Usage:  "Verify the configured client credentials",
				Action: r.AuthTest,
			},
		},
	}
}

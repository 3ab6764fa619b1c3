package main

import (
	"context"
	"fmt"
	"os"

	"github.com/akoval/topspin/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup scaffolds the config file and initializes the run-history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	config := r.scaffoldConfig(configPath)

	r.logger.Info("initializing run-history database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Run history database: %s\n", config.Database.Path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Add your Notion API key and database ID under [credentials.notion]\n")
	r.writePlain("2. Add Spotify credentials under [credentials.spotify] for 'topspin covers'\n")
	r.writePlain("3. Run 'topspin rank' to normalize album ranks\n")

	return nil
}

// scaffoldConfig loads the config at path, creating it from the embedded
// template first when absent. Any failure falls back to built-in defaults so
// setup can still initialize the database.
func (r *Runner) scaffoldConfig(path string) *shared.Config {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("could not create config file", "path", path, "err", err)
			return shared.DefaultConfig()
		}
		r.logger.Info("config file created from template", "path", path)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("could not load config, using defaults", "path", path, "err", err)
		return shared.DefaultConfig()
	}
	return config
}

package main

import (
	"context"
	"errors"
	"os"

	"github.com/akoval/topspin/internal/services"
	"github.com/akoval/topspin/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var records services.RecordSource
	var artwork services.ArtworkSource

	if config.Credentials.Notion.Validate() == nil {
		if svc, err := services.NewNotionService(config.Credentials.Notion.Map(), config.Fields); err == nil {
			records = svc
		}
	}

	if config.Credentials.Spotify.Validate() == nil {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			artwork = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Records: records,
		Artwork: artwork,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:    "topspin",
		Usage:   "Rank albums and fetch artwork for a Notion music catalog",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Scaffold config.toml and initialize the run-history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// rankCommand runs the interactive rank-normalization loop
func rankCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "rank",
		Aliases: []string{"sort"},
		Usage:   "Normalize album ranks and write them back to Notion",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "policy",
				Aliases: []string{"p"},
				Usage:   "Sorting policy (default or compact); skips the prompt",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Run a single pass without prompting",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Normalize and report without writing back",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export the normalized list (csv, markdown, txt)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "File path for the exported list",
			},
		},
		Action: r.RankAlbums,
	}
}

// coversCommand runs the artwork enrichment pass
func coversCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "covers",
		Aliases: []string{"decorate"},
		Usage:   "Fetch album covers and icons from Spotify and update Notion pages",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite existing covers and icons",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "Delay between artwork searches",
			},
		},
		Action: r.Covers,
	}
}

// pruneCommand drops stale rank select options from the database schema
func pruneCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "prune",
		Aliases: []string{"cleanup"},
		Usage:   "Rebuild the rank select options, dropping labels no longer in use",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Rebuild without prompting",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report the labels in use without rebuilding",
			},
		},
		Action: r.Prune,
	}
}

// statsCommand summarizes the catalog
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show album catalog statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Stats,
	}
}

// historyCommand lists recorded passes
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded rank and artwork passes",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// tuiCommand launches the dashboard
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"dashboard"},
		Usage:   "Launch the interactive dashboard",
		Action:  r.TUI,
	}
}

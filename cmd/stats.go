package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/akoval/topspin/internal/shared"
	"github.com/urfave/cli/v3"
)

// Stats fetches the catalog and prints summary counts.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	if r.records == nil {
		return fmt.Errorf("%w: Notion credentials not configured, run 'topspin setup'", shared.ErrMissingCredentials)
	}

	r.logger.Info("fetching catalog statistics")

	stats, err := r.engine.Stats(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	rows := [][]string{
		{"Total albums", strconv.Itoa(stats.TotalAlbums)},
		{"Listened", strconv.Itoa(stats.Listened)},
		{"Rated", strconv.Itoa(stats.Rated)},
		{"Unrated", strconv.Itoa(stats.Unrated)},
		{"With covers", strconv.Itoa(stats.WithCovers)},
		{"With icons", strconv.Itoa(stats.WithIcons)},
	}

	r.writePlain("%s\n", renderTable(
		[]string{"Metric", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))

	return nil
}

// History lists the most recent recorded passes.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.historyRepo()
	if err != nil {
		return err
	}

	runs, err := repo.List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, true)
	}

	if len(runs) == 0 {
		r.writePlain("No recorded runs yet.\n")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.StartedAt.Format(time.DateTime),
			string(run.Kind),
			run.Policy,
			strconv.Itoa(run.Eligible),
			strconv.Itoa(run.Updated),
			strconv.Itoa(run.Failed),
			run.Duration().Round(time.Millisecond).String(),
		})
	}

	r.writePlain("%s\n", renderTable(
		[]string{"Started", "Kind", "Policy", "Eligible", "Updated", "Failed", "Duration"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	))

	return nil
}

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akoval/topspin/internal/shared"
	"github.com/akoval/topspin/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Prune rebuilds the rank property's select options to just the labels still
// assigned to an album. Rank passes leave stale formatted labels behind in the
// Notion schema; this cleans them out.
func (r *Runner) Prune(ctx context.Context, cmd *cli.Command) error {
	if r.records == nil {
		return fmt.Errorf("%w: Notion credentials not configured, run 'topspin setup'", shared.ErrMissingCredentials)
	}

	dryRun := cmd.Bool("dry-run")
	yes := cmd.Bool("yes")

	if !dryRun {
		r.attachHistory()

		// The rebuild clears every select option before re-adding the kept ones,
		// so get an explicit go-ahead.
		if !yes {
			confirmed, err := r.promptYesNo("Rebuild the rank options, dropping unused labels? (y/n): ")
			if err != nil {
				return err
			}
			if !confirmed {
				r.writePlain("Aborted.\n")
				return nil
			}
		}
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("📥 %s\n", update.Message)
		}
	}()

	result, err := r.engine.Prune(ctx, progressCh, tasks.PruneOpts{DryRun: dryRun})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Prune Pass Complete")
	r.writePlain("Pages scanned: %d\n", result.Total)
	r.writePlain("Labels in use: %d\n", len(result.UsedLabels))
	if dryRun {
		r.writePlain("Dry run: no changes written.\n")
		if len(result.UsedLabels) > 0 {
			r.writePlain("Would keep: %s\n", strings.Join(result.UsedLabels, ", "))
		}
	} else {
		r.writePlain("Rank options rebuilt.\n")
	}
	r.writePlain("Elapsed: %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))

	return nil
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/akoval/topspin/internal/shared"
	"github.com/akoval/topspin/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Covers runs one artwork enrichment pass over the catalog.
func (r *Runner) Covers(ctx context.Context, cmd *cli.Command) error {
	if r.records == nil {
		return fmt.Errorf("%w: Notion credentials not configured, run 'topspin setup'", shared.ErrMissingCredentials)
	}
	if r.artwork == nil {
		return fmt.Errorf("%w: Spotify credentials not configured, run 'topspin setup'", shared.ErrMissingCredentials)
	}

	force := cmd.Bool("force")
	delay := cmd.Duration("delay")

	r.attachHistory()

	r.writePlain("🎵 Starting album page decoration...\n")
	if force {
		r.writePlain("Force update: existing covers and icons will be overwritten\n")
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPages:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SearchArtwork, tasks.UpdateMedia:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Decorate(ctx, progressCh, tasks.DecorateOpts{Force: force, Interval: delay})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Decoration Complete")
	r.writePlain("Albums in catalog: %d\n", result.Total)
	r.writePlain("Candidates: %d\n", result.Candidates)
	if result.Candidates == 0 {
		r.writePlain("All albums already have covers and icons. Use --force to overwrite.\n")
		return nil
	}
	r.writePlain("Updated: %d\n", result.Updated)
	if result.NoMatch > 0 {
		r.writePlain("No match: %d\n", result.NoMatch)
	}
	if result.Skipped > 0 {
		r.writePlain("Skipped: %d\n", result.Skipped)
	}
	if result.Failed > 0 {
		r.writePlain("Failed: %d (see log)\n", result.Failed)
	}
	r.writePlain("Elapsed: %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))

	return nil
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/akoval/topspin/internal/catalog"
	"github.com/akoval/topspin/internal/formatter"
	"github.com/akoval/topspin/internal/shared"
	"github.com/akoval/topspin/internal/tasks"
	"github.com/urfave/cli/v3"
)

// RankAlbums owns the interactive rank loop: prompt for the policy, run one
// normalization pass, ask whether the sorting is finished, repeat until the
// operator says yes. A failed pass is logged and the operator is still asked
// whether to continue.
func (r *Runner) RankAlbums(ctx context.Context, cmd *cli.Command) error {
	if r.records == nil {
		return fmt.Errorf("%w: Notion credentials not configured, run 'topspin setup'", shared.ErrMissingCredentials)
	}

	policyFlag := cmd.String("policy")
	singlePass := cmd.Bool("yes")
	dryRun := cmd.Bool("dry-run")
	format := cmd.String("format")
	outputPath := cmd.String("output")

	if !dryRun {
		r.attachHistory()
	}

	var preset *catalog.Policy
	if policyFlag != "" {
		policy, err := catalog.ParsePolicy(policyFlag)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		preset = &policy
	}

	for {
		policy := catalog.PolicyDefault
		switch {
		case preset != nil:
			policy = *preset
		case singlePass:
			// non-interactive single pass keeps the default policy
		default:
			var err error
			if policy, err = r.promptPolicy(); err != nil {
				return err
			}
		}

		result, err := r.runRankPass(ctx, policy, dryRun)
		if err != nil {
			// Whole-pass failure: log it, then let the operator decide whether
			// to retry on the next loop iteration.
			r.logger.Error("rank pass failed", "err", err)
			r.writePlainln("✗ Pass failed: %v", err)
			if singlePass {
				return err
			}
		} else if format != "" || outputPath != "" {
			if err := r.exportRanking(result, format, outputPath); err != nil {
				r.logger.Error("failed to export ranking", "err", err)
			}
		}

		if singlePass {
			return nil
		}

		finished, err := r.promptYesNo("Is the sorting finished? (y/n): ")
		if err != nil {
			return err
		}
		if finished {
			return nil
		}
	}
}

// runRankPass executes one engine pass and prints its summary.
func (r *Runner) runRankPass(ctx context.Context, policy catalog.Policy, dryRun bool) (*tasks.RankResult, error) {
	r.writePlain("Retrieving from Notion...\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPages, tasks.NormalizeRanks:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.UpdateRanks:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Rank(ctx, progressCh, tasks.RankOpts{Policy: policy, DryRun: dryRun})
	close(progressCh)
	<-done

	if err != nil {
		return nil, err
	}

	r.writePlain("\n")
	r.writePlainHeader("Rank Pass Complete")
	r.writePlain("Policy: %s\n", result.Policy)
	r.writePlain("Albums fetched: %d\n", result.Total)
	r.writePlain("Listened albums ranked: %d\n", result.Eligible)
	if result.Eligible == 0 {
		r.writePlain("No listened albums found to process.\n")
		return result, nil
	}
	if dryRun {
		r.writePlain("Dry run: no changes written.\n")
	} else {
		r.writePlain("Updated: %d\n", result.Updated)
		if result.Failed > 0 {
			r.writePlain("Failed: %d (see log)\n", result.Failed)
		}
	}
	r.writePlain("Elapsed: %s\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))

	return result, nil
}

// exportRanking writes the normalized list to a file or to standard output.
func (r *Runner) exportRanking(result *tasks.RankResult, format, outputPath string) error {
	if format == "" {
		format = "csv"
	}

	data, err := formatter.Export(result.Albums, format, "Album Ranking")
	if err != nil {
		return err
	}

	if outputPath == "" {
		return r.writePlain("%s", data)
	}

	if err := formatter.SaveToFile(data, outputPath); err != nil {
		return err
	}
	r.writePlain("✓ Ranking exported to %s\n", outputPath)
	return nil
}

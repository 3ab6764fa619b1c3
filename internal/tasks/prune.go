package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/akoval/topspin/internal/catalog"
	"github.com/akoval/topspin/internal/models"
	"github.com/akoval/topspin/internal/shared"
)

// PruneOpts configures a rank-option cleanup pass.
type PruneOpts struct {
	DryRun bool // report the labels in use, skip the rebuild
}

// PruneResult contains all data from one cleanup pass.
type PruneResult struct {
	Total      int      // pages fetched from the database
	UsedLabels []string // labels currently assigned, kept in the rebuilt schema
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Prune rebuilds the rank property's select options to exactly the labels still
// assigned to a page. Rank passes and compaction leave stale formatted labels
// behind in the database schema; this drops them.
//
// A catalog with no assigned rank labels still triggers a rebuild, since that
// clears every stale option.
func (e *CatalogEngine) Prune(ctx context.Context, progress chan<- ProgressUpdate, opts PruneOpts) (*PruneResult, error) {
	if e.records == nil {
		return nil, fmt.Errorf("%w: record source not initialized", shared.ErrServiceUnavailable)
	}

	result := &PruneResult{
		DryRun:    opts.DryRun,
		StartedAt: time.Now(),
	}

	e.sendProgress(progress, fetchingPagesUpdate())
	pages, err := e.records.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	e.sendProgress(progress, pagesFetchedUpdate(len(pages)))

	result.Total = len(pages)
	result.UsedLabels = catalog.UsedRankLabels(pages, e.fields)

	if opts.DryRun {
		e.logger.Info("dry run, skipping option rebuild", "labels", len(result.UsedLabels))
		result.FinishedAt = time.Now()
		return result, nil
	}

	e.sendProgress(progress, rebuildingOptionsUpdate(len(result.UsedLabels)))
	if err := e.records.RebuildRankOptions(ctx, result.UsedLabels); err != nil {
		return nil, err
	}
	e.sendProgress(progress, optionsRebuiltUpdate(len(result.UsedLabels)))

	result.FinishedAt = time.Now()
	e.recordRun(models.Run{
		Kind:       models.RunKindPrune,
		Total:      result.Total,
		Eligible:   len(result.UsedLabels),
		Updated:    len(result.UsedLabels),
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	})

	return result, nil
}

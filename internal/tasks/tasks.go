package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/akoval/topspin/internal/catalog"
	"github.com/akoval/topspin/internal/models"
	"github.com/akoval/topspin/internal/services"
	"github.com/akoval/topspin/internal/shared"
	"github.com/charmbracelet/log"
)

// RunRecorder persists completed passes for the history view. The engine treats
// recording as best effort: a failed write is logged, never fatal.
type RunRecorder interface {
	Create(run models.Run) error
}

// CatalogEngine orchestrates the rank and artwork pipelines over the injected
// record and artwork sources.
type CatalogEngine struct {
	records services.RecordSource
	artwork services.ArtworkSource
	fields  shared.FieldsConfig
	runs    RunRecorder
	logger  *log.Logger
}

// NewCatalogEngine creates an engine over the given sources. The artwork source
// may be nil when only ranking is used; runs may be nil to disable history.
func NewCatalogEngine(records services.RecordSource, artwork services.ArtworkSource, fields shared.FieldsConfig, logger *log.Logger) *CatalogEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CatalogEngine{
		records: records,
		artwork: artwork,
		fields:  fields,
		logger:  logger,
	}
}

// SetRunRecorder enables run-history persistence.
func (e *CatalogEngine) SetRunRecorder(runs RunRecorder) {
	e.runs = runs
}

// SetLogger replaces the engine logger. The TUI uses this to redirect log
// output to a file.
func (e *CatalogEngine) SetLogger(logger *log.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// sendProgress delivers an update without blocking when no one is listening.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// RankOpts configures a rank pass.
type RankOpts struct {
	Policy catalog.Policy
	DryRun bool // normalize and report, skip write-back
}

// RankResult contains all data from one rank pass.
type RankResult struct {
	Policy     catalog.Policy
	Total      int            // albums fetched from the database
	Eligible   int            // listened albums that were normalized
	Updated    int            // pages written back successfully
	Failed     int            // per-album write-back failures (logged and skipped)
	Albums     []models.Album // the normalized, sorted list
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Rank runs one full normalization pass: fetch, parse, normalize, write back.
//
// Write-backs are keyed by the album's page handle, so duplicate titles cannot
// target the wrong page. Each update failure is logged and skipped; the pass
// always runs to completion. An empty eligible set returns a zero-count result
// with no write-back calls.
func (e *CatalogEngine) Rank(ctx context.Context, progress chan<- ProgressUpdate, opts RankOpts) (*RankResult, error) {
	if e.records == nil {
		return nil, fmt.Errorf("%w: record source not initialized", shared.ErrServiceUnavailable)
	}

	result := &RankResult{
		Policy:    opts.Policy,
		DryRun:    opts.DryRun,
		StartedAt: time.Now(),
	}

	e.sendProgress(progress, fetchingPagesUpdate())
	pages, err := e.records.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	e.sendProgress(progress, pagesFetchedUpdate(len(pages)))

	albums := catalog.ParsePages(pages, e.fields)
	result.Total = len(albums)

	normalized := catalog.Normalize(albums, opts.Policy)
	result.Eligible = len(normalized)
	result.Albums = normalized
	e.sendProgress(progress, normalizedUpdate(len(normalized), opts.Policy.String()))

	if len(normalized) == 0 {
		e.logger.Info("no listened albums found, nothing to do")
		result.FinishedAt = time.Now()
		return result, nil
	}

	if opts.DryRun {
		e.logger.Info("dry run, skipping write-back", "albums", len(normalized))
		result.FinishedAt = time.Now()
		return result, nil
	}

	for i, album := range normalized {
		e.sendProgress(progress, rankingUpdate(i+1, len(normalized), album))

		if err := e.records.UpdateRank(ctx, album.PageID, album.Name, album.Label); err != nil {
			e.logger.Error("failed to update album rank", "album", album.Name, "err", err)
			e.sendProgress(progress, rankFailedUpdate(i+1, len(normalized), album, err))
			result.Failed++
			continue
		}
		result.Updated++
	}

	result.FinishedAt = time.Now()
	e.recordRun(models.Run{
		Kind:       models.RunKindRank,
		Policy:     opts.Policy.String(),
		Total:      result.Total,
		Eligible:   result.Eligible,
		Updated:    result.Updated,
		Failed:     result.Failed,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	})

	return result, nil
}

// CatalogStats summarizes the current state of the album database.
type CatalogStats struct {
	TotalAlbums int
	Listened    int
	Rated       int
	Unrated     int // listened but not yet ranked
	WithCovers  int
	WithIcons   int
}

// Stats fetches the catalog and computes summary counts for the dashboard.
func (e *CatalogEngine) Stats(ctx context.Context) (*CatalogStats, error) {
	if e.records == nil {
		return nil, fmt.Errorf("%w: record source not initialized", shared.ErrServiceUnavailable)
	}

	pages, err := e.records.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	stats := &CatalogStats{}
	for _, album := range catalog.ParsePages(pages, e.fields) {
		stats.TotalAlbums++
		if album.IsListened() {
			stats.Listened++
			if album.IsRated() {
				stats.Rated++
			} else {
				stats.Unrated++
			}
		}
		if album.HasCover {
			stats.WithCovers++
		}
		if album.HasIcon {
			stats.WithIcons++
		}
	}

	return stats, nil
}

// recordRun persists a completed pass when a recorder is configured.
func (e *CatalogEngine) recordRun(run models.Run) {
	if e.runs == nil {
		return
	}

	run.ID = shared.GenerateID()
	if err := run.Validate(); err != nil {
		e.logger.Warn("skipping invalid run record", "err", err)
		return
	}

	if err := e.runs.Create(run); err != nil {
		e.logger.Warn("failed to record run history", "err", err)
	}
}

package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/akoval/topspin/internal/catalog"
	"github.com/akoval/topspin/internal/models"
	"github.com/akoval/topspin/internal/services"
	"github.com/akoval/topspin/internal/shared"
	"golang.org/x/time/rate"
)

// defaultArtworkInterval spaces artwork searches to stay friendly to the API.
const defaultArtworkInterval = 500 * time.Millisecond

// DecorateOpts configures an artwork pass.
type DecorateOpts struct {
	Force    bool          // overwrite existing covers and icons
	Interval time.Duration // delay between albums, defaults to 500ms
}

// DecorateResult contains all data from one artwork pass.
type DecorateResult struct {
	Total      int // albums fetched from the database
	Candidates int // albums considered for artwork
	Updated    int // pages whose media was written
	NoMatch    int // searches that returned nothing
	Skipped    int // candidates with nothing to write or no usable name
	Failed     int // search or update failures (logged and skipped)
	Force      bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Decorate enriches album pages with cover and icon artwork.
//
// Albums missing a cover or icon (all albums under Force) get one search by
// album and artist name, or by album name alone when the artist is not set;
// whichever of cover/icon is absent is written back
// (both under Force). A rate limiter spaces requests between albums. Failed
// searches and failed writes are logged and skipped, never aborting the pass.
func (e *CatalogEngine) Decorate(ctx context.Context, progress chan<- ProgressUpdate, opts DecorateOpts) (*DecorateResult, error) {
	if e.records == nil {
		return nil, fmt.Errorf("%w: record source not initialized", shared.ErrServiceUnavailable)
	}
	if e.artwork == nil {
		return nil, fmt.Errorf("%w: artwork source not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Interval <= 0 {
		opts.Interval = defaultArtworkInterval
	}

	result := &DecorateResult{Force: opts.Force, StartedAt: time.Now()}

	if err := e.artwork.Authenticate(ctx); err != nil {
		return nil, err
	}
	e.logger.Info("authenticated with artwork service", "service", e.artwork.Name())

	e.sendProgress(progress, fetchingPagesUpdate())
	pages, err := e.records.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	e.sendProgress(progress, pagesFetchedUpdate(len(pages)))

	albums := catalog.ParsePages(pages, e.fields)
	result.Total = len(albums)

	var candidates []models.Album
	for _, album := range albums {
		if opts.Force || !album.HasCover || !album.HasIcon {
			candidates = append(candidates, album)
		}
	}
	result.Candidates = len(candidates)

	if len(candidates) == 0 {
		e.logger.Info("all albums already have covers and icons, nothing to do")
		result.FinishedAt = time.Now()
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Every(opts.Interval), 1)

	// Duplicate entries for the same album share one search per pass.
	searched := map[string]*services.ArtworkMatch{}

	for i, album := range candidates {
		if album.Name == catalog.UntitledName {
			e.logger.Debug("skipping album without a usable name", "album", album.Name)
			result.Skipped++
			continue
		}

		// An album without an artist select still gets a search, by name alone.
		artist := album.Artist
		if artist == catalog.UnknownArtist {
			artist = ""
		}

		key := shared.NormalizeAlbumKey(album.Name, artist)
		match, cached := searched[key]
		if !cached {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}

			e.sendProgress(progress, searchArtworkUpdate(i+1, len(candidates), album))
			var err error
			match, err = e.artwork.SearchAlbum(ctx, album.Name, artist)
			if err != nil {
				e.logger.Error("artwork search failed", "album", album.Name, "err", err)
				e.sendProgress(progress, mediaFailedUpdate(i+1, len(candidates), album, err))
				result.Failed++
				continue
			}
			searched[key] = match
		}
		if match == nil {
			e.logger.Info("no artwork match", "album", album.Name, "artist", album.Artist)
			e.sendProgress(progress, noMatchUpdate(i+1, len(candidates), album))
			result.NoMatch++
			continue
		}

		coverURL, iconURL := "", ""
		if match.CoverURL != "" && (opts.Force || !album.HasCover) {
			coverURL = match.CoverURL
		}
		if match.IconURL != "" && (opts.Force || !album.HasIcon) {
			iconURL = match.IconURL
		}

		if coverURL == "" && iconURL == "" {
			result.Skipped++
			continue
		}

		if err := e.records.UpdateMedia(ctx, album.PageID, coverURL, iconURL); err != nil {
			e.logger.Error("failed to update album media", "album", album.Name, "err", err)
			e.sendProgress(progress, mediaFailedUpdate(i+1, len(candidates), album, err))
			result.Failed++
			continue
		}

		e.sendProgress(progress, mediaUpdatedUpdate(i+1, len(candidates), album, coverURL != "", iconURL != ""))
		result.Updated++
	}

	result.FinishedAt = time.Now()
	e.recordRun(models.Run{
		Kind:       models.RunKindCovers,
		Total:      result.Total,
		Eligible:   result.Candidates,
		Updated:    result.Updated,
		Failed:     result.Failed,
		Skipped:    result.Skipped + result.NoMatch,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	})

	return result, nil
}

package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/akoval/topspin/internal/services"
	"github.com/akoval/topspin/internal/shared"
)

// fastInterval keeps the rate limiter out of the way in tests.
const fastInterval = time.Microsecond

func TestCatalogEngine_Decorate(t *testing.T) {
	t.Run("writes missing cover and icon", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "In Rainbows", "1", "Radiohead", "Listened"),
			},
		}
		artwork := &mockArtworkSource{
			matches: map[string]*services.ArtworkMatch{
				"In Rainbows|Radiohead": {
					AlbumName:  "In Rainbows",
					ArtistName: "Radiohead",
					CoverURL:   "https://img/large.jpg",
					IconURL:    "https://img/small.jpg",
				},
			},
		}
		engine := NewCatalogEngine(records, artwork, testFields(), nil)

		result, err := engine.Decorate(context.Background(), nil, DecorateOpts{Interval: fastInterval})
		if err != nil {
			t.Fatalf("Decorate() error = %v", err)
		}

		if result.Updated != 1 {
			t.Errorf("Decorate() updated = %d, want 1", result.Updated)
		}
		if len(records.mediaWrites) != 1 {
			t.Fatalf("Decorate() wrote %d pages, want 1", len(records.mediaWrites))
		}
		write := records.mediaWrites[0]
		if write.pageID != "p1" || write.coverURL != "https://img/large.jpg" || write.iconURL != "https://img/small.jpg" {
			t.Errorf("Decorate() write = %+v, unexpected payload", write)
		}
	})

	t.Run("albums with artwork are not candidates", func(t *testing.T) {
		page := albumPage("p1", "Done", "1", "Artist", "Listened")
		page.Cover = &services.FileRef{Type: "external"}
		page.Icon = &services.FileRef{Type: "external"}

		records := &mockRecordSource{pages: []services.Page{page}}
		artwork := &mockArtworkSource{}
		engine := NewCatalogEngine(records, artwork, testFields(), nil)

		result, err := engine.Decorate(context.Background(), nil, DecorateOpts{Interval: fastInterval})
		if err != nil {
			t.Fatalf("Decorate() error = %v", err)
		}

		if result.Candidates != 0 {
			t.Errorf("Decorate() candidates = %d, want 0", result.Candidates)
		}
		if len(artwork.searchCalls) != 0 {
			t.Errorf("Decorate() searched %d times, want 0", len(artwork.searchCalls))
		}
	})

	t.Run("force includes complete albums and overwrites", func(t *testing.T) {
		page := albumPage("p1", "Done", "1", "Artist", "Listened")
		page.Cover = &services.FileRef{Type: "external"}
		page.Icon = &services.FileRef{Type: "external"}

		records := &mockRecordSource{pages: []services.Page{page}}
		artwork := &mockArtworkSource{
			matches: map[string]*services.ArtworkMatch{
				"Done|Artist": {CoverURL: "https://img/new-large.jpg", IconURL: "https://img/new-small.jpg"},
			},
		}
		engine := NewCatalogEngine(records, artwork, testFields(), nil)

		result, err := engine.Decorate(context.Background(), nil, DecorateOpts{Force: true, Interval: fastInterval})
		if err != nil {
			t.Fatalf("Decorate() error = %v", err)
		}

		if result.Candidates != 1 || result.Updated != 1 {
			t.Errorf("Decorate() candidates/updated = %d/%d, want 1/1", result.Candidates, result.Updated)
		}
		if records.mediaWrites[0].coverURL != "https://img/new-large.jpg" {
			t.Errorf("Decorate() cover = %q, want overwrite", records.mediaWrites[0].coverURL)
		}
	})

	t.Run("partial artwork writes only the missing side", func(t *testing.T) {
		page := albumPage("p1", "Half", "1", "Artist", "Listened")
		page.Cover = &services.FileRef{Type: "external"} // icon missing

		records := &mockRecordSource{pages: []services.Page{page}}
		artwork := &mockArtworkSource{
			matches: map[string]*services.ArtworkMatch{
				"Half|Artist": {CoverURL: "https://img/large.jpg", IconURL: "https://img/small.jpg"},
			},
		}
		engine := NewCatalogEngine(records, artwork, testFields(), nil)

		if _, err := engine.Decorate(context.Background(), nil, DecorateOpts{Interval: fastInterval}); err != nil {
			t.Fatalf("Decorate() error = %v", err)
		}

		write := records.mediaWrites[0]
		if write.coverURL != "" {
			t.Errorf("Decorate() cover = %q, want empty (already present)", write.coverURL)
		}
		if write.iconURL != "https://img/small.jpg" {
			t.Errorf("Decorate() icon = %q, want new icon", write.iconURL)
		}
	})

	t.Run("no match counted, pass continues", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "Obscure", "1", "Nobody", "Listened"),
				albumPage("p2", "Found", "2", "Artist", "Listened"),
			},
		}
		artwork := &mockArtworkSource{
			matches: map[string]*services.ArtworkMatch{
				"Found|Artist": {CoverURL: "https://img/large.jpg", IconURL: "https://img/small.jpg"},
			},
		}
		engine := NewCatalogEngine(records, artwork, testFields(), nil)

		result, err := engine.Decorate(context.Background(), nil, DecorateOpts{Interval: fastInterval})
		if err != nil {
			t.Fatalf("Decorate() error = %v", err)
		}

		if result.NoMatch != 1 {
			t.Errorf("Decorate() noMatch = %d, want 1", result.NoMatch)
		}
		if result.Updated != 1 {
			t.Errorf("Decorate() updated = %d, want 1", result.Updated)
		}
	})

	t.Run("unusable names are skipped without searching", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "", "", "", "Listened"), // parses to Untitled/Unknown
			},
		}
		artwork := &mockArtworkSource{}
		engine := NewCatalogEngine(records, artwork, testFields(), nil)

		result, err := engine.Decorate(context.Background(), nil, DecorateOpts{Interval: fastInterval})
		if err != nil {
			t.Fatalf("Decorate() error = %v", err)
		}

		if result.Skipped != 1 {
			t.Errorf("Decorate() skipped = %d, want 1", result.Skipped)
		}
		if len(artwork.searchCalls) != 0 {
			t.Errorf("Decorate() searched %d times, want 0", len(artwork.searchCalls))
		}
	})

	t.Run("missing artist searches by album name alone", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "Selected Ambient Works", "1", "", "Listened"),
			},
		}
		artwork := &mockArtworkSource{
			matches: map[string]*services.ArtworkMatch{
				"Selected Ambient Works|": {CoverURL: "https://img/large.jpg", IconURL: "https://img/small.jpg"},
			},
		}
		engine := NewCatalogEngine(records, artwork, testFields(), nil)

		result, err := engine.Decorate(context.Background(), nil, DecorateOpts{Interval: fastInterval})
		if err != nil {
			t.Fatalf("Decorate() error = %v", err)
		}

		if len(artwork.searchCalls) != 1 || artwork.searchCalls[0] != "Selected Ambient Works|" {
			t.Errorf("Decorate() searches = %v, want one name-only search", artwork.searchCalls)
		}
		if result.Updated != 1 {
			t.Errorf("Decorate() updated = %d, want 1", result.Updated)
		}
	})

	t.Run("duplicate entries share one search", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "In Rainbows", "1", "Radiohead", "Listened"),
				albumPage("p2", "in rainbows", "2", "RADIOHEAD", "Listened"),
			},
		}
		artwork := &mockArtworkSource{
			matches: map[string]*services.ArtworkMatch{
				"In Rainbows|Radiohead": {CoverURL: "https://img/large.jpg", IconURL: "https://img/small.jpg"},
			},
		}
		engine := NewCatalogEngine(records, artwork, testFields(), nil)

		result, err := engine.Decorate(context.Background(), nil, DecorateOpts{Interval: fastInterval})
		if err != nil {
			t.Fatalf("Decorate() error = %v", err)
		}

		if len(artwork.searchCalls) != 1 {
			t.Errorf("Decorate() searched %d times, want 1 for duplicate entries", len(artwork.searchCalls))
		}
		if result.Updated != 2 {
			t.Errorf("Decorate() updated = %d, want 2 (both pages written)", result.Updated)
		}
	})

	t.Run("search failure is isolated", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "First", "1", "Artist", "Listened"),
			},
		}
		artwork := &mockArtworkSource{searchErr: fmt.Errorf("rate limited")}
		engine := NewCatalogEngine(records, artwork, testFields(), nil)

		result, err := engine.Decorate(context.Background(), nil, DecorateOpts{Interval: fastInterval})
		if err != nil {
			t.Fatalf("Decorate() error = %v", err)
		}

		if result.Failed != 1 {
			t.Errorf("Decorate() failed = %d, want 1", result.Failed)
		}
	})

	t.Run("authentication failure aborts the pass", func(t *testing.T) {
		records := &mockRecordSource{}
		artwork := &mockArtworkSource{authenticateErr: shared.ErrAuthFailed}
		engine := NewCatalogEngine(records, artwork, testFields(), nil)

		_, err := engine.Decorate(context.Background(), nil, DecorateOpts{Interval: fastInterval})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("Decorate() error = %v, want ErrAuthFailed", err)
		}
	})

	t.Run("nil artwork source", func(t *testing.T) {
		engine := NewCatalogEngine(&mockRecordSource{}, nil, testFields(), nil)

		_, err := engine.Decorate(context.Background(), nil, DecorateOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("Decorate() error = %v, want ErrServiceUnavailable", err)
		}
	})
}

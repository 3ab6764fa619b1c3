package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/akoval/topspin/internal/catalog"
	"github.com/akoval/topspin/internal/models"
	"github.com/akoval/topspin/internal/services"
	"github.com/akoval/topspin/internal/shared"
)

type rankWrite struct {
	pageID string
	name   string
	label  string
}

type mediaWrite struct {
	pageID   string
	coverURL string
	iconURL  string
}

type mockRecordSource struct {
	pages         []services.Page
	fetchErr      error
	rankWrites    []rankWrite
	mediaWrites   []mediaWrite
	failRankFor   map[string]error // pageID -> error
	failMediaFor  map[string]error
	updateCalled  int
	rebuiltLabels [][]string
	rebuildErr    error
}

func (m *mockRecordSource) Name() string { return "Notion" }

func (m *mockRecordSource) FetchAll(ctx context.Context) ([]services.Page, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.pages, nil
}

func (m *mockRecordSource) UpdateRank(ctx context.Context, pageID, name, label string) error {
	m.updateCalled++
	if err, ok := m.failRankFor[pageID]; ok {
		return err
	}
	m.rankWrites = append(m.rankWrites, rankWrite{pageID: pageID, name: name, label: label})
	return nil
}

func (m *mockRecordSource) UpdateMedia(ctx context.Context, pageID, coverURL, iconURL string) error {
	if err, ok := m.failMediaFor[pageID]; ok {
		return err
	}
	m.mediaWrites = append(m.mediaWrites, mediaWrite{pageID: pageID, coverURL: coverURL, iconURL: iconURL})
	return nil
}

func (m *mockRecordSource) RebuildRankOptions(ctx context.Context, labels []string) error {
	if m.rebuildErr != nil {
		return m.rebuildErr
	}
	m.rebuiltLabels = append(m.rebuiltLabels, labels)
	return nil
}

type mockArtworkSource struct {
	matches         map[string]*services.ArtworkMatch // "album|artist" -> match
	authenticateErr error
	searchErr       error
	searchCalls     []string
}

func (m *mockArtworkSource) Name() string { return "Spotify" }

func (m *mockArtworkSource) Authenticate(ctx context.Context) error {
	return m.authenticateErr
}

func (m *mockArtworkSource) SearchAlbum(ctx context.Context, album, artist string) (*services.ArtworkMatch, error) {
	m.searchCalls = append(m.searchCalls, album+"|"+artist)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.matches[album+"|"+artist], nil
}

type mockRunRecorder struct {
	runs      []models.Run
	createErr error
}

func (m *mockRunRecorder) Create(run models.Run) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.runs = append(m.runs, run)
	return nil
}

func testFields() shared.FieldsConfig {
	return shared.FieldsConfig{Album: "Album", Rank: "Top", Artist: "Artist", Status: "Status"}
}

func albumPage(id, name, rank, artist, status string) services.Page {
	props := map[string]services.PageProperty{
		"Album": {Type: "title", Title: []services.RichText{{Text: &services.TextContent{Content: name}}}},
	}
	if rank != "" {
		props["Top"] = services.PageProperty{Type: "select", Select: &services.SelectOption{Name: rank}}
	}
	if artist != "" {
		props["Artist"] = services.PageProperty{Type: "select", Select: &services.SelectOption{Name: artist}}
	}
	if status != "" {
		props["Status"] = services.PageProperty{Type: "status", Status: &services.SelectOption{Name: status}}
	}
	return services.Page{ID: id, Properties: props}
}

func TestCatalogEngine_Rank(t *testing.T) {
	t.Run("writes normalized labels keyed by page handle", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "Dupes", "3", "Artist A", "Listened"),
				albumPage("p2", "Dupes", "3", "Artist B", "Listened"),
				albumPage("p3", "New One", "", "Artist C", "Listened"),
				albumPage("p4", "Dropped", "9", "Artist D", "Dropped"),
			},
		}
		engine := NewCatalogEngine(records, nil, testFields(), nil)

		result, err := engine.Rank(context.Background(), nil, RankOpts{Policy: catalog.PolicyDefault})
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}

		if result.Total != 4 {
			t.Errorf("Rank() total = %d, want 4", result.Total)
		}
		if result.Eligible != 3 {
			t.Errorf("Rank() eligible = %d, want 3", result.Eligible)
		}
		if result.Updated != 3 {
			t.Errorf("Rank() updated = %d, want 3", result.Updated)
		}

		if len(records.rankWrites) != 3 {
			t.Fatalf("Rank() wrote %d pages, want 3", len(records.rankWrites))
		}

		// Duplicate titles must not mix up pages.
		wantLabels := map[string]string{"p1": "03", "p2": "04", "p3": "05"}
		for _, write := range records.rankWrites {
			if want := wantLabels[write.pageID]; write.label != want {
				t.Errorf("Rank() wrote label %q to %s, want %q", write.label, write.pageID, want)
			}
		}
	})

	t.Run("empty eligible set skips write-back", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "Queued", "5", "Artist", "Queued"),
			},
		}
		engine := NewCatalogEngine(records, nil, testFields(), nil)

		result, err := engine.Rank(context.Background(), nil, RankOpts{Policy: catalog.PolicyDefault})
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}

		if result.Eligible != 0 {
			t.Errorf("Rank() eligible = %d, want 0", result.Eligible)
		}
		if records.updateCalled != 0 {
			t.Errorf("Rank() made %d update calls, want 0", records.updateCalled)
		}
	})

	t.Run("per-album failure is isolated", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "First", "1", "Artist", "Listened"),
				albumPage("p2", "Second", "2", "Artist", "Listened"),
				albumPage("p3", "Third", "3", "Artist", "Listened"),
			},
			failRankFor: map[string]error{"p2": fmt.Errorf("boom")},
		}
		engine := NewCatalogEngine(records, nil, testFields(), nil)

		result, err := engine.Rank(context.Background(), nil, RankOpts{Policy: catalog.PolicyDefault})
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}

		if result.Updated != 2 {
			t.Errorf("Rank() updated = %d, want 2", result.Updated)
		}
		if result.Failed != 1 {
			t.Errorf("Rank() failed = %d, want 1", result.Failed)
		}
	})

	t.Run("dry run skips write-back but reports albums", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "First", "1", "Artist", "Listened"),
			},
		}
		engine := NewCatalogEngine(records, nil, testFields(), nil)

		result, err := engine.Rank(context.Background(), nil, RankOpts{Policy: catalog.PolicyDefault, DryRun: true})
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}

		if records.updateCalled != 0 {
			t.Errorf("Rank() made %d update calls during dry run, want 0", records.updateCalled)
		}
		if len(result.Albums) != 1 {
			t.Errorf("Rank() albums = %d, want 1", len(result.Albums))
		}
	})

	t.Run("fetch failure aborts the pass", func(t *testing.T) {
		records := &mockRecordSource{fetchErr: fmt.Errorf("network down")}
		engine := NewCatalogEngine(records, nil, testFields(), nil)

		_, err := engine.Rank(context.Background(), nil, RankOpts{})
		if err == nil {
			t.Fatal("Rank() expected error on fetch failure")
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("Rank() error = %v, want ErrAPIRequest", err)
		}
	})

	t.Run("nil record source", func(t *testing.T) {
		engine := NewCatalogEngine(nil, nil, testFields(), nil)

		_, err := engine.Rank(context.Background(), nil, RankOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("Rank() error = %v, want ErrServiceUnavailable", err)
		}
	})

	t.Run("records run history", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "First", "1", "Artist", "Listened"),
			},
		}
		recorder := &mockRunRecorder{}
		engine := NewCatalogEngine(records, nil, testFields(), nil)
		engine.SetRunRecorder(recorder)

		if _, err := engine.Rank(context.Background(), nil, RankOpts{Policy: catalog.PolicyCompact}); err != nil {
			t.Fatalf("Rank() error = %v", err)
		}

		if len(recorder.runs) != 1 {
			t.Fatalf("Rank() recorded %d runs, want 1", len(recorder.runs))
		}
		run := recorder.runs[0]
		if run.Kind != models.RunKindRank {
			t.Errorf("Rank() run kind = %q, want %q", run.Kind, models.RunKindRank)
		}
		if run.Policy != "compact" {
			t.Errorf("Rank() run policy = %q, want %q", run.Policy, "compact")
		}
		if run.ID == "" {
			t.Error("Rank() run id should be generated")
		}
	})

	t.Run("recorder failure does not fail the pass", func(t *testing.T) {
		records := &mockRecordSource{
			pages: []services.Page{
				albumPage("p1", "First", "1", "Artist", "Listened"),
			},
		}
		engine := NewCatalogEngine(records, nil, testFields(), nil)
		engine.SetRunRecorder(&mockRunRecorder{createErr: fmt.Errorf("disk full")})

		if _, err := engine.Rank(context.Background(), nil, RankOpts{}); err != nil {
			t.Errorf("Rank() error = %v, want nil despite recorder failure", err)
		}
	})
}

func TestCatalogEngine_Stats(t *testing.T) {
	records := &mockRecordSource{
		pages: []services.Page{
			albumPage("p1", "Rated", "3", "Artist", "Listened"),
			albumPage("p2", "Unrated", "", "Artist", "Listened"),
			albumPage("p3", "Queued", "", "Artist", "Queued"),
		},
	}
	records.pages[0].Cover = &services.FileRef{Type: "external"}
	records.pages[0].Icon = &services.FileRef{Type: "external"}

	engine := NewCatalogEngine(records, nil, testFields(), nil)

	stats, err := engine.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalAlbums != 3 {
		t.Errorf("Stats() totalAlbums = %d, want 3", stats.TotalAlbums)
	}
	if stats.Listened != 2 {
		t.Errorf("Stats() listened = %d, want 2", stats.Listened)
	}
	if stats.Rated != 1 || stats.Unrated != 1 {
		t.Errorf("Stats() rated/unrated = %d/%d, want 1/1", stats.Rated, stats.Unrated)
	}
	if stats.WithCovers != 1 || stats.WithIcons != 1 {
		t.Errorf("Stats() covers/icons = %d/%d, want 1/1", stats.WithCovers, stats.WithIcons)
	}
}

func TestProgressUpdate_NonBlocking(t *testing.T) {
	records := &mockRecordSource{
		pages: []services.Page{
			albumPage("p1", "First", "1", "Artist", "Listened"),
			albumPage("p2", "Second", "2", "Artist", "Listened"),
		},
	}
	engine := NewCatalogEngine(records, nil, testFields(), nil)

	// Unbuffered channel with no consumer: sends must not block.
	progressCh := make(chan ProgressUpdate)

	done := make(chan bool)
	go func() {
		_, err := engine.Rank(context.Background(), progressCh, RankOpts{Policy: catalog.PolicyDefault})
		if err != nil {
			t.Errorf("Rank() error = %v", err)
		}
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Error("Rank() should not block on progress sends")
	}
}

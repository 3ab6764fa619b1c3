package tasks

import (
	"fmt"

	"github.com/akoval/topspin/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPages Phase = iota
	NormalizeRanks
	UpdateRanks
	SearchArtwork
	UpdateMedia
	RebuildOptions
)

func (p Phase) String() string {
	switch p {
	case FetchPages:
		return "fetch_pages"
	case NormalizeRanks:
		return "normalize_ranks"
	case UpdateRanks:
		return "update_ranks"
	case SearchArtwork:
		return "search_artwork"
	case UpdateMedia:
		return "update_media"
	case RebuildOptions:
		return "rebuild_options"
	default:
		return ""
	}
}

func fetchingPagesUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPages,
		Step:    0,
		Total:   1,
		Message: "Retrieving album pages from Notion...",
	}
}

func pagesFetchedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPages,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched %d albums", count),
	}
}

func normalizedUpdate(eligible int, policy string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   NormalizeRanks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Normalized %d listened albums (%s policy)", eligible, policy),
	}
}

func rankingUpdate(step, total int, album models.Album) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UpdateRanks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s → %s", step, total, album.Name, album.Label),
		Data:    album,
	}
}

func rankFailedUpdate(step, total int, album models.Album, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UpdateRanks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, album.Name, err),
	}
}

func searchArtworkUpdate(step, total int, album models.Album) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchArtwork,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching artwork: %s — %s", step, total, album.Name, album.Artist),
	}
}

func mediaUpdatedUpdate(step, total int, album models.Album, cover, icon bool) ProgressUpdate {
	parts := ""
	switch {
	case cover && icon:
		parts = "cover, icon"
	case cover:
		parts = "cover"
	case icon:
		parts = "icon"
	}
	return ProgressUpdate{
		Phase:   UpdateMedia,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, album.Name, parts),
	}
}

func mediaFailedUpdate(step, total int, album models.Album, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UpdateMedia,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, album.Name, err),
	}
}

func rebuildingOptionsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RebuildOptions,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Rebuilding rank options (%d in use)...", count),
	}
}

func optionsRebuiltUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RebuildOptions,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Rank options rebuilt, %d kept", count),
	}
}

func noMatchUpdate(step, total int, album models.Album) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchArtwork,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] No match for %s — %s", step, total, album.Name, album.Artist),
	}
}

package models

import (
	"fmt"
	"time"
)

// StatusListened is the only album status eligible for ranking.
const StatusListened = "Listened"

// Album represents one album page from the catalog database.
//
// PageID is the stable Notion page handle captured at parse time and used as the
// join key for every write-back. Rating is nil while the album is unranked; the
// normalizer fills it in and renders Label, the zero-padded select label stored
// back to Notion.
type Album struct {
	PageID   string
	Name     string
	Artist   string
	Rating   *int
	Label    string
	Status   string
	HasCover bool
	HasIcon  bool
}

// IsListened reports whether the album is eligible for ranking.
func (a Album) IsListened() bool {
	return a.Status == StatusListened
}

// IsRated reports whether the album carries a parsed integer rank.
func (a Album) IsRated() bool {
	return a.Rating != nil
}

// RunKind enumerates the operations recorded in run history.
type RunKind string

const (
	RunKindRank   RunKind = "rank"
	RunKindCovers RunKind = "covers"
	RunKindPrune  RunKind = "prune"
)

// Run records one completed catalog pass for the history view.
type Run struct {
	ID         string
	Kind       RunKind
	Policy     string // rank policy used, empty for artwork passes
	Total      int    // albums fetched from the catalog
	Eligible   int    // albums the pass acted on
	Updated    int
	Failed     int
	Skipped    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Validate checks that the run record is complete enough to persist.
func (r Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("run id is required")
	}
	switch r.Kind {
	case RunKindRank, RunKindCovers, RunKindPrune:
	default:
		return fmt.Errorf("unknown run kind %q", r.Kind)
	}
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return fmt.Errorf("run timestamps are required")
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return fmt.Errorf("run finished before it started")
	}
	return nil
}

// Duration returns the wall-clock time the pass took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

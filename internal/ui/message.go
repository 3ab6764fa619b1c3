package ui

import (
	"github.com/akoval/topspin/internal/tasks"
)

type progressUpdateMsg tasks.ProgressUpdate

// passCompleteMsg carries the outcome of a rank, covers, or prune pass.
// Exactly one of the result pointers is set on success.
type passCompleteMsg struct {
	rank     *tasks.RankResult
	decorate *tasks.DecorateResult
	prune    *tasks.PruneResult
	err      error
}

type statsFetchedMsg struct {
	stats *tasks.CatalogStats
	err   error
}

// Package tasks implements the catalog operations behind every topspin surface.
//
// The core abstraction is [CatalogEngine], which orchestrates the catalog
// pipelines: rank normalization (fetch, parse, normalize, per-album write-back),
// artwork enrichment (fetch, parse, per-album search and media update), and
// rank-option pruning (fetch, collect labels in use, rebuild the select schema).
// Passes run sequentially with per-item error isolation: one album failing never
// aborts a pass. Operations emit progress updates via channels for non-blocking status
// reporting to CLI/TUI layers, and return explicit result objects instead of
// mutating any ambient state.
package tasks

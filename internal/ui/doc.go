// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The dashboard provides a multi-view workflow for catalog maintenance:
//  1. [MenuView] : Pick an action (rank albums, set covers, prune rank options, catalog stats)
//  2. [OptionsView] : Choose how the action runs (rank policy, overwrite mode)
//  3. [RunningView] : Monitor real-time progress updates
//  4. [StatsView] : Display catalog summary counts
//  5. [ResultView] : Display pass results
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the CatalogEngine, providing
// non-blocking status reporting during long passes.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui

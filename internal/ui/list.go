package ui

import (
	"github.com/akoval/topspin/internal/catalog"
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = actionItem{}
	_ list.Item = rankOptionItem{}
	_ list.Item = coversOptionItem{}
)

// actionKind enumerates the dashboard's top-level actions.
type actionKind int

const (
	actionRank actionKind = iota
	actionCovers
	actionPrune
	actionStats
)

// actionItem is a menu entry implementing [list.Item].
type actionItem struct {
	action actionKind
	title  string
	desc   string
}

func (i actionItem) FilterValue() string { return i.title }
func (i actionItem) Title() string       { return i.title }
func (i actionItem) Description() string { return i.desc }

// rankOptionItem wraps a [catalog.Policy] to implement [list.Item].
type rankOptionItem struct {
	policy catalog.Policy
	title  string
	desc   string
}

func (i rankOptionItem) FilterValue() string { return i.title }
func (i rankOptionItem) Title() string       { return i.title }
func (i rankOptionItem) Description() string { return i.desc }

// coversOptionItem wraps the artwork overwrite mode to implement [list.Item].
type coversOptionItem struct {
	force bool
	title string
	desc  string
}

func (i coversOptionItem) FilterValue() string { return i.title }
func (i coversOptionItem) Title() string       { return i.title }
func (i coversOptionItem) Description() string { return i.desc }

func menuItems(artworkAvailable bool) []list.Item {
	items := []list.Item{
		actionItem{action: actionRank, title: "Sort Albums", desc: "Normalize ranks for listened albums"},
	}
	if artworkAvailable {
		items = append(items, actionItem{action: actionCovers, title: "Set Covers", desc: "Fetch cover and icon artwork from Spotify"})
	}
	items = append(items,
		actionItem{action: actionPrune, title: "Prune Rank Options", desc: "Drop rank labels no longer assigned to an album"},
		actionItem{action: actionStats, title: "Catalog Stats", desc: "Show summary counts for the catalog"},
	)
	return items
}

func rankOptionItems() []list.Item {
	return []list.Item{
		rankOptionItem{policy: catalog.PolicyDefault, title: "Default ranking", desc: "Keep rank spacing, repair collisions only"},
		rankOptionItem{policy: catalog.PolicyCompact, title: "Compact ranking", desc: "Renumber densely from 1"},
	}
}

func coversOptionItems() []list.Item {
	return []list.Item{
		coversOptionItem{force: false, title: "Add missing only", desc: "Skip albums that already have covers and icons"},
		coversOptionItem{force: true, title: "Overwrite all", desc: "Replace existing covers and icons"},
	}
}

package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the dashboard's [key.Binding] set. Each view renders the subset
// it responds to via help.ShortHelpView.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	bind := func(help string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
	}
	return keyMap{
		up:      bind("up", "up", "k"),
		down:    bind("down", "down", "j"),
		enter:   bind("select", "enter"),
		back:    bind("back", "esc"),
		restart: bind("menu", "r"),
		quit:    bind("quit", "q", "ctrl+c"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.restart, k.quit},
	}
}

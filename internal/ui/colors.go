package ui

import "github.com/charmbracelet/lipgloss"

// stylesheet holds the [lipgloss.Style] set the dashboard renders with.
type stylesheet struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

var styles = stylesheet{
	title: lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954")).Bold(true).MarginBottom(1),
	ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
	err:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
	warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
	help:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true),
}

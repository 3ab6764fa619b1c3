package main

import (
	"context"
	"fmt"

	"github.com/akoval/topspin/internal/shared"
	"github.com/akoval/topspin/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive dashboard for catalog maintenance.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.records == nil {
		return fmt.Errorf("%w: Notion service not initialized", shared.ErrServiceUnavailable)
	}
	if r.engine == nil {
		return fmt.Errorf("%w: catalog engine not initialized", shared.ErrServiceUnavailable)
	}

	// Log lines would corrupt the rendered frames, so send them to a file.
	fileLogger, err := shared.NewFileLogger("./tmp/topspin-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	r.attachHistory()

	model := ui.NewModel(ctx, r.engine, r.artwork != nil)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

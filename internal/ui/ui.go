package ui

import (
	"context"
	"fmt"

	"github.com/akoval/topspin/internal/catalog"
	"github.com/akoval/topspin/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the dashboard.
type ViewState int

const (
	MenuView ViewState = iota
	OptionsView
	RunningView
	StatsView
	ResultView
)

// Model represents the dashboard application state.
type Model struct {
	ctx              context.Context
	view             ViewState
	engine           *tasks.CatalogEngine
	artworkAvailable bool
	width            int
	height           int
	menu             list.Model
	options          list.Model
	action           actionKind
	progressChan     chan tasks.ProgressUpdate
	progress         tasks.ProgressUpdate
	rankResult       *tasks.RankResult
	decorateResult   *tasks.DecorateResult
	pruneResult      *tasks.PruneResult
	stats            *tasks.CatalogStats
	err              error
	help             help.Model
	keys             keyMap
}

// NewModel creates a new dashboard model with the provided dependencies.
// artworkAvailable hides the covers action when no artwork source is configured.
func NewModel(ctx context.Context, engine *tasks.CatalogEngine, artworkAvailable bool) *Model {
	menu := list.New(menuItems(artworkAvailable), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Album Catalog"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	return &Model{
		ctx:              ctx,
		view:             MenuView,
		engine:           engine,
		artworkAvailable: artworkAvailable,
		menu:             menu,
		help:             help.New(),
		keys:             newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		if m.options.Width() != 0 {
			m.options.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case OptionsView:
			return m.handleOptionsKeys(msg)
		case StatsView, ResultView:
			return m.handleResultKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case passCompleteMsg:
		m.rankResult = msg.rank
		m.decorateResult = msg.decorate
		m.pruneResult = msg.prune
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil

	case statsFetchedMsg:
		m.stats = msg.stats
		m.err = msg.err
		m.view = StatsView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView && m.view != StatsView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case MenuView:
		return m.renderMenu()
	case OptionsView:
		return m.renderOptions()
	case RunningView:
		return m.renderRunning()
	case StatsView:
		return m.renderStats()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.menu.SelectedItem()
		if selected == nil {
			break
		}
		item, ok := selected.(actionItem)
		if !ok {
			break
		}
		m.action = item.action
		switch item.action {
		case actionRank:
			m.options = list.New(rankOptionItems(), list.NewDefaultDelegate(), m.width-4, m.height-8)
			m.options.Title = "Sorting Policy"
			m.options.SetShowStatusBar(false)
			m.options.SetFilteringEnabled(false)
			m.view = OptionsView
			return m, nil
		case actionCovers:
			m.options = list.New(coversOptionItems(), list.NewDefaultDelegate(), m.width-4, m.height-8)
			m.options.Title = "Artwork Mode"
			m.options.SetShowStatusBar(false)
			m.options.SetFilteringEnabled(false)
			m.view = OptionsView
			return m, nil
		case actionPrune:
			m.view = RunningView
			m.progress = tasks.ProgressUpdate{Message: "Starting prune pass..."}
			return m, m.startPrune()
		case actionStats:
			m.view = RunningView
			m.progress = tasks.ProgressUpdate{Message: "Fetching catalog statistics..."}
			return m, m.fetchStats()
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) handleOptionsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MenuView
		return m, nil
	case "enter":
		selected := m.options.SelectedItem()
		if selected == nil {
			break
		}
		switch item := selected.(type) {
		case rankOptionItem:
			m.view = RunningView
			m.progress = tasks.ProgressUpdate{Message: "Starting rank pass..."}
			return m, m.startRank(item.policy)
		case coversOptionItem:
			m.view = RunningView
			m.progress = tasks.ProgressUpdate{Message: "Starting artwork pass..."}
			return m, m.startDecorate(item.force)
		}
	}

	var cmd tea.Cmd
	m.options, cmd = m.options.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r", "esc":
		m.view = MenuView
		m.rankResult = nil
		m.decorateResult = nil
		m.pruneResult = nil
		m.stats = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MenuView:
		m.menu, cmd = m.menu.Update(msg)
	case OptionsView:
		m.options, cmd = m.options.Update(msg)
	}
	return m, cmd
}

func (m *Model) startRank(policy catalog.Policy) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Rank(m.ctx, m.progressChan, tasks.RankOpts{Policy: policy})
		m.rankResult = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) startDecorate(force bool) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Decorate(m.ctx, m.progressChan, tasks.DecorateOpts{Force: force})
		m.decorateResult = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) startPrune() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Prune(m.ctx, m.progressChan, tasks.PruneOpts{})
		m.pruneResult = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return passCompleteMsg{rank: m.rankResult, decorate: m.decorateResult, prune: m.pruneResult, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return passCompleteMsg{rank: m.rankResult, decorate: m.decorateResult, prune: m.pruneResult, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) fetchStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.engine.Stats(m.ctx)
		return statsFetchedMsg{stats: stats, err: err}
	}
}

func (m *Model) renderMenu() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.menu.View(), helpView)
}

func (m *Model) renderOptions() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.options.View(), helpView)
}

func (m *Model) renderRunning() string {
	var title string
	switch m.action {
	case actionRank:
		title = styles.title.Render("Ranking Albums")
	case actionCovers:
		title = styles.title.Render("Setting Covers")
	case actionPrune:
		title = styles.title.Render("Pruning Rank Options")
	default:
		title = styles.title.Render("Working")
	}

	var phase string
	switch m.progress.Phase {
	case tasks.FetchPages:
		phase = "Retrieving album pages..."
	case tasks.NormalizeRanks:
		phase = "Normalizing ranks..."
	case tasks.UpdateRanks:
		phase = fmt.Sprintf("Updating ranks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.SearchArtwork:
		phase = fmt.Sprintf("Searching artwork (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.UpdateMedia:
		phase = fmt.Sprintf("Updating media (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.RebuildOptions:
		phase = "Rebuilding rank options..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderStats() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Failed to fetch stats: %v\n\nPress r for menu, q to quit", m.err))
	}
	if m.stats == nil {
		return styles.err.Render("No stats available\n\nPress r for menu, q to quit")
	}

	title := styles.title.Render("Catalog Stats")
	info := fmt.Sprintf(
		"\nTotal albums: %d\nListened: %d\nRated: %d\nUnrated: %d\nWith covers: %d\nWith icons: %d",
		m.stats.TotalAlbums,
		m.stats.Listened,
		m.stats.Rated,
		m.stats.Unrated,
		m.stats.WithCovers,
		m.stats.WithIcons,
	)

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Pass failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.rankResult != nil {
		title := styles.ok.Render("✓ Rank Pass Complete")
		info := fmt.Sprintf(
			"\nPolicy: %s\nAlbums fetched: %d\nListened albums ranked: %d\nUpdated: %d",
			m.rankResult.Policy,
			m.rankResult.Total,
			m.rankResult.Eligible,
			m.rankResult.Updated,
		)
		var failed string
		if m.rankResult.Failed > 0 {
			failed = "\n" + styles.warn.Render(fmt.Sprintf("Failed: %d (see log)", m.rankResult.Failed))
		}
		return fmt.Sprintf("%s%s%s\n\n%s", title, info, failed, helpView)
	}

	if m.pruneResult != nil {
		title := styles.ok.Render("✓ Prune Pass Complete")
		info := fmt.Sprintf(
			"\nPages scanned: %d\nLabels kept: %d",
			m.pruneResult.Total,
			len(m.pruneResult.UsedLabels),
		)
		return fmt.Sprintf("%s%s\n\n%s", title, info, helpView)
	}

	if m.decorateResult != nil {
		title := styles.ok.Render("✓ Artwork Pass Complete")
		info := fmt.Sprintf(
			"\nAlbums in catalog: %d\nCandidates: %d\nUpdated: %d\nNo match: %d\nSkipped: %d",
			m.decorateResult.Total,
			m.decorateResult.Candidates,
			m.decorateResult.Updated,
			m.decorateResult.NoMatch,
			m.decorateResult.Skipped,
		)
		var failed string
		if m.decorateResult.Failed > 0 {
			failed = "\n" + styles.warn.Render(fmt.Sprintf("Failed: %d (see log)", m.decorateResult.Failed))
		}
		return fmt.Sprintf("%s%s%s\n\n%s", title, info, failed, helpView)
	}

	return styles.err.Render("No result available\n\nPress r to retry, q to quit")
}

package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/collide/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 110 // Minimum width to show the strategy sidebar
	sidebarWidth       = 30
	maxRuns            = 200 // Max runs to load
)

// RunSource is the part of the run store the history browser reads.
type RunSource interface {
	RecentRuns(limit int) ([]storage.Run, error)
	RunsForScenario(scenarioID string, limit int) ([]storage.Run, error)
	StrategyStats() ([]storage.StrategyStats, error)
}

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Reload, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Reload, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next scenario"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev scenario"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing stored runs.
type HistoryModel struct {
	source      RunSource
	filters     []string // "" for all scenarios, then scenario IDs
	cursor      int
	runs        []storage.Run
	stats       []storage.StrategyStats
	err         error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewHistoryModel creates a history browser, initially filtered to
// scenarioID (all scenarios when empty).
func NewHistoryModel(source RunSource, scenarioID string, width, height int) HistoryModel {
	m := HistoryModel{
		source:      source,
		keys:        DefaultHistoryKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.filters = m.loadFilters()
	if i := slices.Index(m.filters, scenarioID); i >= 0 {
		m.cursor = i
	} else {
		m.filters = append(m.filters, scenarioID)
		m.cursor = len(m.filters) - 1
	}

	m.table = m.createTable()
	m.load()
	return m
}

// loadFilters lists "" followed by every scenario found in recent runs.
func (m *HistoryModel) loadFilters() []string {
	filters := []string{""}
	runs, err := m.source.RecentRuns(maxRuns)
	if err != nil {
		return filters
	}
	seen := make(map[string]bool)
	var ids []string
	for _, r := range runs {
		if !seen[r.ScenarioID] {
			seen[r.ScenarioID] = true
			ids = append(ids, r.ScenarioID)
		}
	}
	slices.Sort(ids)
	return append(filters, ids...)
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 12},
		{Title: "Scenario", Width: 20},
		{Title: "Strategy", Width: 8},
		{Title: "Frames", Width: 7},
		{Title: "Overlaps", Width: 8},
		{Title: "Hints", Width: 7},
		{Title: "Depth", Width: 8},
		{Title: "ns/det", Width: 9},
		{Title: "Result", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Filter returns the scenario the table is filtered to, or "" for all.
func (m HistoryModel) Filter() string {
	return m.filters[m.cursor]
}

// Runs returns the loaded runs.
func (m HistoryModel) Runs() []storage.Run {
	return m.runs
}

// load reads runs for the current filter and the strategy stats.
func (m *HistoryModel) load() {
	var runs []storage.Run
	var err error
	if id := m.Filter(); id == "" {
		runs, err = m.source.RecentRuns(maxRuns)
	} else {
		runs, err = m.source.RunsForScenario(id, maxRuns)
	}
	m.runs, m.err = runs, err

	if stats, err := m.source.StrategyStats(); err == nil {
		m.stats = stats
	} else if m.err == nil {
		m.err = err
	}

	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *HistoryModel) updateTableRows() {
	m.table.SetRows(RunRows(m.runs))
	m.table.GotoTop()
}

// RunRows formats runs as table rows.
func RunRows(runs []storage.Run) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		result := "ok"
		if !r.Passed {
			result = "FAIL"
		}
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.ScenarioID,
			r.Strategy,
			fmt.Sprintf("%d", r.Frames),
			fmt.Sprintf("%d", r.Overlaps),
			fmt.Sprintf("%d", r.HintHits),
			fmt.Sprintf("%.4f", r.MaxDepth),
			fmt.Sprintf("%d", r.PerDetection().Nanoseconds()),
			result,
		}
	}
	return rows
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.cursor = (m.cursor + 1) % len(m.filters)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.filters) - 1
			}
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "RUN HISTORY - all scenarios"
	if id := m.Filter(); id != "" {
		title = "RUN HISTORY - " + id
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	content := boxStyle.Render(m.renderTableContent())
	if m.showSidebar {
		sidebar := boxStyle.Width(sidebarWidth).Render(m.renderStats())
		content = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", content)
	}
	b.WriteString(content)

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderStats renders per-strategy aggregates for the sidebar.
func (m HistoryModel) renderStats() string {
	var sb strings.Builder
	sb.WriteString("Strategies\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	if len(m.stats) == 0 {
		sb.WriteString("none yet\n")
	}
	for _, st := range m.stats {
		fmt.Fprintf(&sb, "%-6s %3d runs %6dns\n", st.Strategy, st.Runs, st.AvgDetection.Nanoseconds())
		fmt.Fprintf(&sb, "       %3.0f%% overlap", st.OverlapRatio*100)
		if st.Failures > 0 {
			fmt.Fprintf(&sb, " %d fail", st.Failures)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.err != nil {
		return emptyStyle.Render("Cannot read history:\n" + m.err.Error())
	}
	if len(m.runs) == 0 {
		return emptyStyle.Render("No runs recorded yet.\nRun `collide detect` or `collide bench` first.")
	}
	return m.table.View()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if lipgloss.Width(text) >= width {
		return text
	}
	padding := (width - lipgloss.Width(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// RunHistory runs the history browser.
func RunHistory(source RunSource, scenarioID string, width, height int) error {
	model := NewHistoryModel(source, scenarioID, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/collide/internal/scenario"
)

// MenuModel is the Bubble Tea model for the scenario picker.
type MenuModel struct {
	scenarios []*scenario.Scenario
	cursor    int
	width     int
	height    int
	keys      MenuKeyMap
	help      help.Model
	quitting  bool
	selected  *scenario.Scenario // Set when user selects a scenario
}

// NewMenuModel creates a new menu model.
func NewMenuModel(scenarios []*scenario.Scenario, width, height int) MenuModel {
	return MenuModel{
		scenarios: scenarios,
		width:     width,
		height:    height,
		keys:      DefaultMenuKeyMap(),
		help:      help.New(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.scenarios)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Select):
			if len(m.scenarios) > 0 {
				m.selected = m.scenarios[m.cursor]
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  C O L L I D E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a scenario", m.width))
	b.WriteString("\n\n")

	for i, sc := range m.scenarios {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-28s %s", cursor, sc.Title(), dimStyle.Render(sc.ID))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if len(m.scenarios) > 0 {
		if desc := m.scenarios[m.cursor].Description; desc != "" {
			b.WriteString("\n")
			b.WriteString(centerText(dimStyle.Render(desc), m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected scenario, or nil if none selected.
func (m MenuModel) Selected() *scenario.Scenario {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/collide/internal/core"
)

// colorStyles maps cell roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorA:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorB:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorOverlap: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorVector:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	core.ColorAxis:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorFrame:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorText:    lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	core.ColorDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		cells := s.Cells(y)
		for x := 0; x < len(cells); {
			color := cells[x].Color

			var run strings.Builder
			for x < len(cells) && cells[x].Color == color {
				run.WriteRune(cells[x].Rune)
				x++
			}

			style, ok := colorStyles[color]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

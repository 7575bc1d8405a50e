package tui

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/narrowphase/gjk"
	"github.com/vovakirdan/collide/internal/narrowphase/sat"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scenario"
)

const nudgeScenario = `
id: nudge
name: Nudge
a:
  shape: {type: rectangle, width: 2, height: 2}
  position: [0, 0]
b:
  shape: {type: rectangle, width: 2, height: 2}
  position: [3, 0]
expect:
  overlap: false
`

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestViewer(t *testing.T, doc string, initial string) ViewerModel {
	t.Helper()
	sc, err := scenario.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	strategies := []registry.Strategy{sat.Detector{}, gjk.Detector{}}
	return NewViewerModel(sc, strategies, initial, config.Default().Viewer, nil)
}

func update(t *testing.T, m ViewerModel, msgs ...tea.Msg) ViewerModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(ViewerModel); !ok {
			t.Fatalf("Update() returned %T", next)
		}
	}
	return m
}

func TestViewerInitialStrategy(t *testing.T) {
	if m := newTestViewer(t, nudgeScenario, "gjk"); m.Strategy().ID() != "gjk" {
		t.Errorf("Strategy() = %s, expected gjk", m.Strategy().ID())
	}
	if m := newTestViewer(t, nudgeScenario, "missing"); m.Strategy().ID() != "sat" {
		t.Errorf("Strategy() = %s, expected first strategy", m.Strategy().ID())
	}
}

func TestViewerNudgeIntoOverlap(t *testing.T) {
	m := newTestViewer(t, nudgeScenario, "sat")
	if m.Result().Overlap {
		t.Fatal("bodies should start apart")
	}
	if checked, err := m.expectation(); !checked || err != nil {
		t.Errorf("expectation() = %v, %v", checked, err)
	}

	left := tea.KeyMsg{Type: tea.KeyLeft}

	// Four nudges of 0.25 leave the squares touching.
	m = update(t, m, left, left, left, left)
	if m.Result().Overlap {
		t.Error("touching squares should not overlap")
	}
	if checked, _ := m.expectation(); checked {
		t.Error("expectation should not apply once B was moved")
	}

	m = update(t, m, left)
	r := m.Result()
	if !r.Overlap {
		t.Fatal("expected overlap after fifth nudge")
	}
	if math.Abs(r.Penetration.Depth-0.25) > 1e-9 || r.Penetration.Axis[0] < 0.999 {
		t.Errorf("penetration = %v, expected 0.25 along (1, 0)", r.Penetration)
	}
	if !strings.HasPrefix(m.StatusLine(), "sat │ overlap depth 0.2500") {
		t.Errorf("StatusLine() = %q", m.StatusLine())
	}

	// Switching strategy keeps the placement.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Strategy().ID() != "gjk" {
		t.Fatalf("Strategy() = %s, expected gjk", m.Strategy().ID())
	}
	if r := m.Result(); !r.Overlap || math.Abs(r.Penetration.Depth-0.25) > 1e-6 {
		t.Errorf("gjk result = %v", r)
	}

	m = update(t, m, runeKey('r'))
	if m.Result().Overlap || !m.pristine() {
		t.Error("reset should restore the scenario placement")
	}
}

func TestViewerRotateAndZoom(t *testing.T) {
	m := newTestViewer(t, nudgeScenario, "sat")
	zoom := m.viewport.Zoom

	m = update(t, m, runeKey('['), runeKey('+'))
	if m.spin != config.Default().Viewer.Spin {
		t.Errorf("spin = %v", m.spin)
	}
	if math.Abs(m.viewport.Zoom-zoom*zoomStep) > 1e-12 {
		t.Errorf("Zoom = %v, expected %v", m.viewport.Zoom, zoom*zoomStep)
	}

	m = update(t, m, runeKey(']'), runeKey('-'))
	if m.spin != 0 || math.Abs(m.viewport.Zoom-zoom) > 1e-12 {
		t.Errorf("spin = %v zoom = %v after undo", m.spin, m.viewport.Zoom)
	}
}

func TestViewerAnimation(t *testing.T) {
	animated := strings.Replace(nudgeScenario, "name: Nudge", "name: Nudge\nframes: 3", 1)
	m := newTestViewer(t, animated, "sat")
	if m.Init() == nil {
		t.Fatal("animated scenario should start ticking")
	}

	m = update(t, m, TickMsg{}, TickMsg{})
	if m.Frame() != 2 {
		t.Errorf("Frame() = %d, expected 2", m.Frame())
	}
	m = update(t, m, TickMsg{})
	if m.Frame() != 0 {
		t.Errorf("Frame() = %d, expected wrap to 0", m.Frame())
	}

	m = update(t, m, runeKey(' '), TickMsg{})
	if m.Frame() != 0 {
		t.Errorf("paused viewer advanced to frame %d", m.Frame())
	}
	if !strings.Contains(m.StatusLine(), "frame 1/3 paused") {
		t.Errorf("StatusLine() = %q", m.StatusLine())
	}

	static := newTestViewer(t, nudgeScenario, "sat")
	if static.Init() != nil {
		t.Error("static scenario should not tick")
	}
}

func TestViewerDraw(t *testing.T) {
	m := newTestViewer(t, nudgeScenario, "sat")
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})

	s := m.Draw()
	if s.Width() != 60 || s.Height() != 19 {
		t.Fatalf("screen = %dx%d, expected 60x19", s.Width(), s.Height())
	}
	if !strings.HasPrefix(s.Row(0), "Nudge") {
		t.Errorf("title row = %q", s.Row(0))
	}
	status := s.Row(18)
	if !strings.HasPrefix(status, "sat │ apart") || !strings.Contains(status, "✓ expected") {
		t.Errorf("status row = %q", status)
	}

	out := s.String()
	if !strings.ContainsRune(out, RuneA) || !strings.ContainsRune(out, RuneB) {
		t.Error("both bodies should be drawn")
	}
	if strings.ContainsRune(out, RuneOverlap) {
		t.Error("separated bodies should not share cells")
	}
}

func TestViewerQuitAndBack(t *testing.T) {
	m := newTestViewer(t, nudgeScenario, "sat")

	next, cmd := m.Update(runeKey('q'))
	if !next.(ViewerModel).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ViewerModel).BackToMenu() || cmd == nil {
		t.Error("esc should go back")
	}
	if next.View() != "" {
		t.Error("view should be empty after leaving")
	}
}

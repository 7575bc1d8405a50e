package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/narrowphase/sat"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scenario"
)

func TestSessionMenuToViewerAndBack(t *testing.T) {
	scenarios := scenario.Builtin()
	strategies := []registry.Strategy{sat.Detector{}}
	var m tea.Model = NewSessionModel(scenarios, strategies, config.Default(), 80, 24)

	step := func(msg tea.Msg) {
		t.Helper()
		m, _ = m.Update(msg)
	}

	step(tea.KeyMsg{Type: tea.KeyDown})
	step(tea.KeyMsg{Type: tea.KeyEnter})

	s := m.(SessionModel)
	if !s.InViewer() {
		t.Fatal("enter should open the viewer")
	}
	if s.viewer.scenario != scenarios[1] {
		t.Errorf("viewer shows %s, expected %s", s.viewer.scenario.ID, scenarios[1].ID)
	}
	if s.viewer.width != 80 || s.viewer.height != 24 {
		t.Errorf("viewer size = %dx%d", s.viewer.width, s.viewer.height)
	}

	step(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(SessionModel).InViewer() {
		t.Error("esc should return to the menu")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q in the menu should quit")
	}
}

func TestCreateStrategies(t *testing.T) {
	got, err := CreateStrategies([]string{"sat"})
	if err != nil {
		t.Fatalf("CreateStrategies() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID() != "sat" {
		t.Errorf("CreateStrategies() = %v", got)
	}

	if _, err := CreateStrategies([]string{"nope"}); err == nil {
		t.Error("unknown strategy should fail")
	}
}

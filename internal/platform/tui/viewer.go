package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/core"
	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/narrowphase"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scenario"
	"github.com/vovakirdan/collide/internal/shape"
)

// Default terminal size before the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

const zoomStep = 1.25

// ViewerModel is the Bubble Tea model that shows one scenario pair and the
// result of running a strategy on it.
type ViewerModel struct {
	scenario   *scenario.Scenario
	strategies []registry.Strategy
	current    int
	cache      *narrowphase.PairCache
	pairID     narrowphase.PairID
	cfg        config.ViewerConfig
	logger     *log.Logger

	screen   *core.Screen
	viewport Viewport
	keys     ViewerKeyMap
	help     help.Model
	width    int
	height   int

	frame  int
	paused bool
	offset mgl64.Vec2 // user displacement of B
	spin   float64    // user rotation of B
	result narrowphase.Result

	quitting   bool
	backToMenu bool
}

// NewViewerModel creates a viewer for sc with the strategy matching initial
// selected, or the first one. Detections are traced when logger is not nil.
func NewViewerModel(sc *scenario.Scenario, strategies []registry.Strategy, initial string, cfg config.ViewerConfig, logger *log.Logger) ViewerModel {
	m := ViewerModel{
		scenario:   sc,
		strategies: strategies,
		cache:      narrowphase.NewPairCache(),
		pairID:     narrowphase.PairKey(sc.A.Label, sc.B.Label),
		cfg:        cfg,
		logger:     logger,
		screen:     core.NewScreen(defaultWidth, defaultHeight-1),
		keys:       DefaultViewerKeyMap(),
		help:       help.New(),
		width:      defaultWidth,
		height:     defaultHeight,
	}

	for i, s := range strategies {
		if s.ID() == initial {
			m.current = i
			break
		}
	}

	m.viewport = m.initialViewport()
	m.detect()
	return m
}

// canvas returns the cells available to the shapes: everything but the
// status row and the help row.
func (m ViewerModel) canvas() core.Rect {
	return core.NewRect(0, 0, m.width, max(m.height-2, 1))
}

// initialViewport centers both bodies at their first frame, zooming out
// when they would not fit at the configured zoom.
func (m ViewerModel) initialViewport() Viewport {
	ta, tb := m.scenario.TransformsAt(0)
	box := m.scenario.A.Shape.AABB(ta).Union(m.scenario.B.Shape.AABB(tb))
	area := m.canvas()

	v := NewViewport(area, box.Center(), m.cfg.Zoom)
	if box.Width()*v.Zoom > float64(area.W) || box.Height()*v.Zoom/CellAspect > float64(area.H) {
		return Fit(area, box)
	}
	return v
}

// Strategy returns the selected strategy.
func (m ViewerModel) Strategy() registry.Strategy {
	return m.strategies[m.current]
}

// Result returns the result of the last detection.
func (m ViewerModel) Result() narrowphase.Result {
	return m.result
}

// Frame returns the current animation frame.
func (m ViewerModel) Frame() int {
	return m.frame
}

// transforms returns the placements of A and B, including user edits to B.
func (m ViewerModel) transforms() (geom.Transform, geom.Transform) {
	ta, tb := m.scenario.TransformsAt(m.frame)
	return ta, tb.Rotate(m.spin).Translate(m.offset)
}

// detect runs the selected strategy through the pair cache.
func (m *ViewerModel) detect() {
	if len(m.strategies) == 0 {
		return
	}
	var d narrowphase.Detector = m.Strategy()
	if m.logger != nil {
		d = narrowphase.Traced(d, m.Strategy().ID(), m.logger)
	}
	ta, tb := m.transforms()
	m.result = m.cache.Detect(d, m.pairID, m.scenario.A.Shape, ta, m.scenario.B.Shape, tb)
}

// pristine reports whether the pair is in the placement the scenario's
// expectation describes.
func (m ViewerModel) pristine() bool {
	return m.frame == 0 && geom.IsZero(m.offset) && m.spin == 0
}

// Init starts the tick loop for animated scenarios.
func (m ViewerModel) Init() tea.Cmd {
	if m.scenario.Animated() {
		return tickCmd(m.cfg.TickRate())
	}
	return nil
}

// Update handles messages and updates the model state.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = max(msg.Width, 1), max(msg.Height, 3)
		m.screen.Resize(m.width, m.height-1)
		m.viewport.Area = m.canvas()
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nudge := m.cfg.Nudge

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.offset = m.offset.Add(mgl64.Vec2{-nudge, 0})
	case key.Matches(msg, m.keys.Right):
		m.offset = m.offset.Add(mgl64.Vec2{nudge, 0})
	case key.Matches(msg, m.keys.Up):
		m.offset = m.offset.Add(mgl64.Vec2{0, nudge})
	case key.Matches(msg, m.keys.Down):
		m.offset = m.offset.Add(mgl64.Vec2{0, -nudge})
	case key.Matches(msg, m.keys.RotLeft):
		m.spin += m.cfg.Spin
	case key.Matches(msg, m.keys.RotRight):
		m.spin -= m.cfg.Spin

	case key.Matches(msg, m.keys.Strategy):
		if len(m.strategies) > 0 {
			m.current = (m.current + 1) % len(m.strategies)
		}

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.frame = 0
		m.offset = mgl64.Vec2{}
		m.spin = 0
		m.cache.Clear()
		m.viewport = m.initialViewport()

	case key.Matches(msg, m.keys.ZoomIn):
		m.viewport = m.viewport.ZoomBy(zoomStep)
		return m, nil
	case key.Matches(msg, m.keys.ZoomOut):
		m.viewport = m.viewport.ZoomBy(1 / zoomStep)
		return m, nil

	default:
		return m, nil
	}

	m.detect()
	return m, nil
}

// handleTick advances the animation by one frame, wrapping at the end.
func (m ViewerModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused {
		m.frame = (m.frame + 1) % m.scenario.Frames
		m.detect()
	}
	return m, tickCmd(m.cfg.TickRate())
}

// StatusLine describes the current detection in one line.
func (m ViewerModel) StatusLine() string {
	var b strings.Builder

	if len(m.strategies) > 0 {
		b.WriteString(m.Strategy().ID())
	}

	r := m.result
	if r.Overlap {
		a := r.Penetration.Axis
		fmt.Fprintf(&b, " │ overlap depth %.4f axis (%.3f, %.3f)", r.Penetration.Depth, a[0], a[1])
	} else {
		s := r.Separation
		fmt.Fprintf(&b, " │ apart axis (%.3f, %.3f)", s[0], s[1])
		if r.Cached {
			b.WriteString(" cached")
		}
	}

	st := m.cache.Stats()
	fmt.Fprintf(&b, " │ hints %d/%d", st.HintHits, st.Calls)

	if m.scenario.Animated() {
		fmt.Fprintf(&b, " │ frame %d/%d", m.frame+1, m.scenario.Frames)
		if m.paused {
			b.WriteString(" paused")
		}
	}
	return b.String()
}

// expectation checks the scenario's expectation for the pristine placement.
// checked is false when there is nothing to check.
func (m ViewerModel) expectation() (checked bool, err error) {
	if m.scenario.Expect == nil || !m.pristine() || len(m.strategies) == 0 {
		return false, nil
	}
	withAxis := m.scenario.Strategy == "" || m.scenario.Strategy == m.Strategy().ID()
	return true, m.scenario.Expect.Check(m.result, withAxis)
}

// Draw renders the scene into the screen buffer.
func (m ViewerModel) Draw() *core.Screen {
	s := m.screen
	s.Clear()

	ta, tb := m.transforms()
	a, b := m.scenario.A, m.scenario.B
	s.DrawBox(m.canvas(), core.ColorFrame)
	Rasterize(s, m.viewport, a.Shape, ta, b.Shape, tb)

	if m.result.Overlap {
		DrawPenetration(s, m.viewport, shape.WorldCenter(b.Shape, tb), m.result.Penetration)
	} else {
		DrawAxis(s, m.viewport, shape.WorldCenter(a.Shape, ta), m.result.Separation)
	}
	DrawLabel(s, m.viewport, shape.WorldCenter(a.Shape, ta), a.Label)
	DrawLabel(s, m.viewport, shape.WorldCenter(b.Shape, tb), b.Label)

	row := s.Height() - 1
	s.DrawText(0, 0, m.scenario.Title(), core.ColorDim)
	s.DrawText(0, row, m.StatusLine(), core.ColorText)
	if checked, err := m.expectation(); checked {
		text, color := " ✓ expected", core.ColorText
		if err != nil {
			text, color = " ✗ "+strings.ReplaceAll(err.Error(), "\n", "; "), core.ColorWarn
		}
		s.DrawText(len([]rune(m.StatusLine())), row, text, color)
	}
	return s
}

// View renders the current state to a string for display.
func (m ViewerModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.Draw()) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// IsQuitting returns true if user requested to quit entirely.
func (m ViewerModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m ViewerModel) BackToMenu() bool {
	return m.backToMenu
}

// RunViewer starts the Bubble Tea program for sc.
func RunViewer(sc *scenario.Scenario, strategies []registry.Strategy, initial string, cfg config.ViewerConfig, logger *log.Logger) error {
	if len(strategies) == 0 {
		return fmt.Errorf("tui: no strategies to show")
	}
	model := NewViewerModel(sc, strategies, initial, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

package scenario

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/collide/internal/shape"
)

// fileScenario is the YAML structure of a scenario file.
type fileScenario struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Strategy    string      `yaml:"strategy,omitempty"`
	Frames      int         `yaml:"frames,omitempty"`
	A           fileBody    `yaml:"a"`
	B           fileBody    `yaml:"b"`
	Expect      *fileExpect `yaml:"expect,omitempty"`
}

// fileBody places a shape. Angles are in degrees.
type fileBody struct {
	Label    string     `yaml:"label,omitempty"`
	Shape    ShapeSpec  `yaml:"shape"`
	Position [2]float64 `yaml:"position"`
	Angle    float64    `yaml:"angle,omitempty"`
	Velocity [2]float64 `yaml:"velocity,omitempty"`
	Spin     float64    `yaml:"spin,omitempty"`
}

type fileExpect struct {
	Overlap bool        `yaml:"overlap"`
	Depth   *float64    `yaml:"depth,omitempty"`
	Axis    *[2]float64 `yaml:"axis,omitempty"`
}

// ShapeSpec describes a shape in a scenario file.
type ShapeSpec struct {
	Type     string       `yaml:"type"` // polygon, rectangle, circle or capsule
	Vertices [][2]float64 `yaml:"vertices,omitempty"`
	Width    float64      `yaml:"width,omitempty"`
	Height   float64      `yaml:"height,omitempty"`
	Radius   float64      `yaml:"radius,omitempty"`
	Length   float64      `yaml:"length,omitempty"`
}

// Build constructs the shape.
func (s ShapeSpec) Build() (shape.Convex, error) {
	switch strings.ToLower(s.Type) {
	case "polygon":
		vs := make([]mgl64.Vec2, len(s.Vertices))
		for i, v := range s.Vertices {
			vs[i] = mgl64.Vec2{v[0], v[1]}
		}
		return shape.NewPolygon(vs...)
	case "rectangle", "rect", "box":
		return shape.NewRectangle(s.Width, s.Height)
	case "circle":
		return shape.NewCircle(s.Radius)
	case "capsule":
		return shape.NewCapsule(s.Length, s.Radius)
	case "":
		return nil, fmt.Errorf("missing shape type: %w", ErrInvalid)
	default:
		return nil, fmt.Errorf("unknown shape type %q: %w", s.Type, ErrInvalid)
	}
}

// String returns a short description such as "circle r=1".
func (s ShapeSpec) String() string {
	switch strings.ToLower(s.Type) {
	case "polygon":
		return fmt.Sprintf("polygon(%d)", len(s.Vertices))
	case "rectangle", "rect", "box":
		return fmt.Sprintf("rectangle %gx%g", s.Width, s.Height)
	case "circle":
		return fmt.Sprintf("circle r=%g", s.Radius)
	case "capsule":
		return fmt.Sprintf("capsule l=%g r=%g", s.Length, s.Radius)
	default:
		return s.Type
	}
}

// Parse parses and validates a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	var fs fileScenario
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if fs.ID == "" {
		return nil, fmt.Errorf("missing id: %w", ErrInvalid)
	}
	if fs.Frames < 0 {
		return nil, fmt.Errorf("frames %d: %w", fs.Frames, ErrInvalid)
	}
	frames := fs.Frames
	if frames == 0 {
		frames = 1
	}

	a, err := fs.A.body("a")
	if err != nil {
		return nil, err
	}
	b, err := fs.B.body("b")
	if err != nil {
		return nil, err
	}

	sc := &Scenario{
		ID:          fs.ID,
		Name:        fs.Name,
		Description: strings.TrimSpace(fs.Description),
		Strategy:    fs.Strategy,
		Frames:      frames,
		A:           a,
		B:           b,
	}

	if fs.Expect != nil {
		sc.Expect = &Expectation{
			Overlap: fs.Expect.Overlap,
			Depth:   fs.Expect.Depth,
		}
		if fs.Expect.Axis != nil {
			axis := mgl64.Vec2{fs.Expect.Axis[0], fs.Expect.Axis[1]}
			sc.Expect.Axis = &axis
		}
	}

	return sc, nil
}

func (fb fileBody) body(key string) (Body, error) {
	s, err := fb.Shape.Build()
	if err != nil {
		return Body{}, fmt.Errorf("body %s: %w", key, err)
	}

	label := fb.Label
	if label == "" {
		label = strings.ToUpper(key)
	}

	return Body{
		Label:    label,
		Spec:     fb.Shape,
		Shape:    s,
		Position: mgl64.Vec2{fb.Position[0], fb.Position[1]},
		Angle:    mgl64.DegToRad(fb.Angle),
		Velocity: mgl64.Vec2{fb.Velocity[0], fb.Velocity[1]},
		Spin:     mgl64.DegToRad(fb.Spin),
	}, nil
}

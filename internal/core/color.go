package core

// Color is the role of a screen cell. The renderer maps roles to
// terminal styles, so drawing code never deals with palettes.
type Color uint8

// Cell roles used by the viewer.
const (
	ColorDefault Color = iota
	ColorA             // cells covered by body A only
	ColorB             // cells covered by body B only
	ColorOverlap       // cells covered by both bodies
	ColorVector        // penetration vector
	ColorAxis          // separating axis
	ColorFrame         // borders and grid marks
	ColorText          // status text
	ColorDim           // secondary text
	ColorWarn          // failed expectations
)

// String returns the role name.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorA:
		return "a"
	case ColorB:
		return "b"
	case ColorOverlap:
		return "overlap"
	case ColorVector:
		return "vector"
	case ColorAxis:
		return "axis"
	case ColorFrame:
		return "frame"
	case ColorText:
		return "text"
	case ColorDim:
		return "dim"
	case ColorWarn:
		return "warn"
	default:
		return "unknown"
	}
}

// Package color turns configured color specifications (solid hex, the system
// accent, or multi-stop gradients) into one renderable description.
package color

import (
	"math"
	"strings"
)

// AccentToken is the symbolic solid color that resolves to the system accent.
const AccentToken = "accent"

// Point is a position in the unit square spanned by a border's bounding box.
// (0,0) is the top-left corner and (1,1) the bottom-right.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Point) inUnitSquare() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

// DirectionKind tags a gradient Direction.
type DirectionKind int

const (
	DirectionAngle DirectionKind = iota
	DirectionVector
)

// Direction is either an angle in degrees (0 = left-to-right, increasing
// clockwise) or an explicit start/end vector.
type Direction struct {
	Kind    DirectionKind
	Degrees float64
	Start   Point
	End     Point
}

// Angle returns an angle direction normalized to [0,360).
func Angle(degrees float64) Direction {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	return Direction{Kind: DirectionAngle, Degrees: d}
}

// Vector returns an explicit start/end direction.
func Vector(start, end Point) Direction {
	return Direction{Kind: DirectionVector, Start: start, End: end}
}

// Gradient is an ordered list of at least two hex colors along a direction.
type Gradient struct {
	Colors    []string
	Direction Direction
}

// Spec is a tagged union: a solid color (hex or AccentToken) when Gradient is
// nil, a gradient otherwise.
type Spec struct {
	Solid    string
	Gradient *Gradient
}

// Solid returns a solid color spec.
func Solid(hex string) Spec {
	return Spec{Solid: hex}
}

// Accent returns a spec that follows the system accent color.
func Accent() Spec {
	return Spec{Solid: AccentToken}
}

// NewGradient returns a gradient spec.
func NewGradient(dir Direction, colors ...string) Spec {
	return Spec{Gradient: &Gradient{Colors: colors, Direction: dir}}
}

// IsAccent reports whether the spec is the symbolic accent color.
func (s Spec) IsAccent() bool {
	return s.Gradient == nil && strings.EqualFold(strings.TrimSpace(s.Solid), AccentToken)
}

// IsZero reports whether nothing was configured.
func (s Spec) IsZero() bool {
	return s.Gradient == nil && s.Solid == ""
}

func (s Spec) String() string {
	if s.Gradient == nil {
		return s.Solid
	}
	return "gradient(" + strings.Join(s.Gradient.Colors, ",") + ")"
}

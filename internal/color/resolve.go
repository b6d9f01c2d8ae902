package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrInvalidColorFormat is returned for malformed hex strings and
	// gradients with fewer than two stops.
	ErrInvalidColorFormat = errors.New("invalid color format")
	// ErrAccentUnavailable is returned when the accent lookup has no color.
	ErrAccentUnavailable = errors.New("accent color unavailable")
	// ErrInvalidDirection is returned for gradient vectors outside the unit square.
	ErrInvalidDirection = errors.New("invalid gradient direction")
)

// FallbackHex is the color a border is drawn in when its configured color
// cannot be resolved.
const FallbackHex = "#FFFFFF"

// Fallback is FallbackHex as a description.
var Fallback = Description{
	Stops: []Stop{{Color: RGBA{R: 1, G: 1, B: 1, A: 1}, Offset: 0}},
	Start: Point{X: 0, Y: 0.5},
	End:   Point{X: 1, Y: 0.5},
}

// AccentLookup queries the current system accent color. It returns false when
// no accent color is available.
type AccentLookup interface {
	CurrentAccentColor() (hex string, ok bool)
}

// AccentFunc adapts a function to AccentLookup.
type AccentFunc func() (string, bool)

func (f AccentFunc) CurrentAccentColor() (string, bool) { return f() }

// RGBA is a straight-alpha color with components in [0,1].
type RGBA struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
	A float64 `json:"a" yaml:"a"`
}

func (c RGBA) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Hex formats the color as #rrggbb, or #rrggbbaa when not opaque.
func (c RGBA) Hex() string {
	h := c.colorful().Clamped().Hex()
	if c.A >= 1 {
		return h
	}
	return fmt.Sprintf("%s%02x", h, uint8(math.Round(clamp01(c.A)*255)))
}

// Stop is one gradient stop at Offset in [0,1].
type Stop struct {
	Color  RGBA    `json:"color"  yaml:"color"`
	Offset float64 `json:"offset" yaml:"offset"`
}

// Description is the renderable form of a Spec: evenly spaced stops along the
// Start->End vector. A solid color has a single stop.
type Description struct {
	Stops []Stop `json:"stops" yaml:"stops"`
	Start Point  `json:"start" yaml:"start"`
	End   Point  `json:"end"   yaml:"end"`
}

// Solid reports whether the description is a single color.
func (d Description) Solid() bool {
	return len(d.Stops) == 1
}

// At returns the interpolated color at gradient parameter t in [0,1].
func (d Description) At(t float64) RGBA {
	switch len(d.Stops) {
	case 0:
		return Fallback.Stops[0].Color
	case 1:
		return d.Stops[0].Color
	}
	t = clamp01(t)
	for i := 1; i < len(d.Stops); i++ {
		lo, hi := d.Stops[i-1], d.Stops[i]
		if t > hi.Offset && i < len(d.Stops)-1 {
			continue
		}
		span := hi.Offset - lo.Offset
		f := 0.0
		if span > 0 {
			f = clamp01((t - lo.Offset) / span)
		}
		c := lo.Color.colorful().BlendRgb(hi.Color.colorful(), f)
		return RGBA{R: c.R, G: c.G, B: c.B, A: lo.Color.A + (hi.Color.A-lo.Color.A)*f}
	}
	return d.Stops[len(d.Stops)-1].Color
}

// Rotate returns the description with its vector rotated clockwise by turns
// (1 = a full revolution) around the center of the unit square.
func (d Description) Rotate(turns float64) Description {
	if turns == 0 {
		return d
	}
	theta := turns * 2 * math.Pi
	sin, cos := math.Sincos(theta)
	rot := func(p Point) Point {
		x, y := p.X-0.5, p.Y-0.5
		return Point{X: 0.5 + x*cos - y*sin, Y: 0.5 + x*sin + y*cos}
	}
	out := d
	out.Start = rot(d.Start)
	out.End = rot(d.End)
	return out
}

// Resolve turns spec into a renderable description. accent may be nil.
func Resolve(spec Spec, accent AccentLookup) (Description, error) {
	if spec.Gradient != nil {
		return resolveGradient(*spec.Gradient)
	}

	hex := strings.TrimSpace(spec.Solid)
	if spec.IsAccent() {
		if accent == nil {
			return Description{}, ErrAccentUnavailable
		}
		h, ok := accent.CurrentAccentColor()
		if !ok {
			return Description{}, ErrAccentUnavailable
		}
		hex = h
	}

	c, err := ParseHex(hex)
	if err != nil {
		return Description{}, err
	}
	return Description{
		Stops: []Stop{{Color: c}},
		Start: Fallback.Start,
		End:   Fallback.End,
	}, nil
}

// ResolveOrFallback is Resolve, substituting Fallback on failure. The error is
// returned for diagnostics only; the description is always usable.
func ResolveOrFallback(spec Spec, accent AccentLookup) (Description, error) {
	d, err := Resolve(spec, accent)
	if err != nil {
		return Fallback, err
	}
	return d, nil
}

func resolveGradient(g Gradient) (Description, error) {
	if len(g.Colors) < 2 {
		return Description{}, fmt.Errorf("%w: gradient needs at least two colors, got %d", ErrInvalidColorFormat, len(g.Colors))
	}

	stops := make([]Stop, len(g.Colors))
	last := float64(len(g.Colors) - 1)
	for i, s := range g.Colors {
		c, err := ParseHex(s)
		if err != nil {
			return Description{}, err
		}
		stops[i] = Stop{Color: c, Offset: float64(i) / last}
	}

	start, end, err := Normalize(g.Direction)
	if err != nil {
		return Description{}, err
	}
	return Description{Stops: stops, Start: start, End: end}, nil
}

// Normalize converts a direction into its start/end vector. An angle maps to
// the line through the center whose endpoints' projections span the whole
// unit square, so 45 degrees yields (0,0)->(1,1).
func Normalize(dir Direction) (start, end Point, err error) {
	if dir.Kind == DirectionVector {
		if !dir.Start.inUnitSquare() || !dir.End.inUnitSquare() {
			return Point{}, Point{}, fmt.Errorf("%w: start %v end %v outside [0,1]x[0,1]", ErrInvalidDirection, dir.Start, dir.End)
		}
		return dir.Start, dir.End, nil
	}

	theta := Angle(dir.Degrees).Degrees * math.Pi / 180
	sin, cos := math.Sincos(theta)
	half := (math.Abs(cos) + math.Abs(sin)) / 2
	dx, dy := cos*half, sin*half
	start = Point{X: round6(0.5 - dx), Y: round6(0.5 - dy)}
	end = Point{X: round6(0.5 + dx), Y: round6(0.5 + dy)}
	return start, end, nil
}

// ParseHex parses #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 && len(s) != 9 || s[0] != '#' {
		return RGBA{}, fmt.Errorf("%w: %q (expected #RRGGBB or #RRGGBBAA)", ErrInvalidColorFormat, s)
	}
	for _, r := range s[1:] {
		if !isHexDigit(r) {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
		}
	}
	c, err := colorful.Hex(s[:7])
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
	}
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
		}
		alpha = float64(a) / 255
	}
	return RGBA{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

func isHexDigit(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round6(v float64) float64 {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

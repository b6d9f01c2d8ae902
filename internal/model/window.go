package model

import (
	"fmt"
	"strconv"
	"strings"
)

// WindowID is the OS-issued window identifier. It is opaque to the core and
// stable for the lifetime of the window.
type WindowID uint64

func (id WindowID) String() string {
	return fmt.Sprintf("0x%x", uint64(id))
}

// Geometry is a window rectangle in screen pixels.
type Geometry struct {
	X      int `json:"x"      yaml:"x"`
	Y      int `json:"y"      yaml:"y"`
	Width  int `json:"width"  yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Empty reports whether the rectangle has no area.
func (g Geometry) Empty() bool {
	return g.Width <= 0 || g.Height <= 0
}

// Expand grows the rectangle by d on every side. A negative d shrinks it.
func (g Geometry) Expand(d int) Geometry {
	return Geometry{X: g.X - d, Y: g.Y - d, Width: g.Width + 2*d, Height: g.Height + 2*d}
}

// ParseGeometry parses a "x,y,w,h" string into a Geometry.
func ParseGeometry(s string) (Geometry, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Geometry{}, fmt.Errorf("invalid geometry %q: expected x,y,w,h", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Geometry{}, fmt.Errorf("invalid geometry %q: %w", s, err)
		}
		vals[i] = v
	}
	return Geometry{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// Window is one entry of a window-list snapshot taken from the OS layer.
type Window struct {
	ID        WindowID `json:"id"                  yaml:"id"`
	Class     string   `json:"class"               yaml:"class"`
	Title     string   `json:"title"               yaml:"title"`
	Bounds    Geometry `json:"bounds"              yaml:"bounds"`
	Focused   bool     `json:"focused,omitempty"   yaml:"focused,omitempty"`
	Minimized bool     `json:"minimized,omitempty" yaml:"minimized,omitempty"`
}

package border

import (
	"github.com/mj1618/desktop-borders/internal/animation"
	"github.com/mj1618/desktop-borders/internal/color"
	"github.com/mj1618/desktop-borders/internal/config"
	"github.com/mj1618/desktop-borders/internal/model"
)

// Frame is everything a compositor needs to draw one window's border.
type Frame struct {
	Window model.WindowID    `json:"window"         yaml:"window"`
	State  State             `json:"state"          yaml:"state"`
	Bounds model.Geometry    `json:"bounds"         yaml:"bounds"`
	Width  int               `json:"width"          yaml:"width"`
	Offset int               `json:"offset"         yaml:"offset"`
	Radius config.Radius     `json:"radius"         yaml:"radius"`
	Color  color.Description `json:"color"          yaml:"color"`
	// From is the previous state's color while a focus cross-fade runs.
	From   *color.Description `json:"from,omitempty" yaml:"from,omitempty"`
	Params animation.Params   `json:"params"         yaml:"params"`
}

// Outer is the outside edge of the border ring.
func (f Frame) Outer() model.Geometry {
	return f.Bounds.Expand(f.Offset + f.Width)
}

// Inner is the inside edge of the border ring.
func (f Frame) Inner() model.Geometry {
	return f.Bounds.Expand(f.Offset)
}

// ColorAt is the border color at gradient parameter t, with spiral rotation
// and cross-fade applied. Opacity is returned separately in Params.
func (f Frame) ColorAt(t float64) color.RGBA {
	to := f.Color.Rotate(f.Params.Rotation())
	c := to.At(t)
	if f.From == nil {
		return c
	}
	from := f.From.Rotate(f.Params.Rotation()).At(t)
	k := f.Params.Opacity
	return color.RGBA{
		R: from.R + (c.R-from.R)*k,
		G: from.G + (c.G-from.G)*k,
		B: from.B + (c.B-from.B)*k,
		A: from.A + (c.A-from.A)*k,
	}
}

// Alpha is the effective opacity of the border at t. During a cross-fade the
// border stays fully drawn and only the color changes.
func (f Frame) Alpha(t float64) float64 {
	a := f.ColorAt(t).A
	if f.From != nil {
		return a
	}
	return a * f.Params.Opacity
}

// Action tells the presenter what to do with a window after a tick.
type Action int

const (
	None Action = iota
	Render
	Hide
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case Hide:
		return "hide"
	default:
		return "none"
	}
}

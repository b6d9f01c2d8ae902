package render

import (
	"fmt"
	"image"
	stdcolor "image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/mj1618/desktop-borders/internal/border"
	"github.com/mj1618/desktop-borders/internal/color"
	"github.com/mj1618/desktop-borders/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// AutoRadius is the corner radius drawn for borders configured as auto.
const AutoRadius = 8.0

// Canvas is a Compositor that keeps the latest frame of every window and
// rasterizes them on demand.
type Canvas struct {
	// Labels draws each window's id next to its border.
	Labels bool

	mu      sync.Mutex
	frames  map[model.WindowID]border.Frame
	renders int
	hides   int
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{frames: make(map[model.WindowID]border.Frame)}
}

func (c *Canvas) RenderBorder(f border.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames[f.Window] = f
	c.renders++
	return nil
}

func (c *Canvas) HideBorder(id model.WindowID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.frames, id)
	c.hides++
	return nil
}

// Clone returns a detached copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := &Canvas{
		Labels:  c.Labels,
		frames:  make(map[model.WindowID]border.Frame, len(c.frames)),
		renders: c.renders,
		hides:   c.hides,
	}
	for id, f := range c.frames {
		out.frames[id] = f
	}
	return out
}

// Counts returns how many renders and hides the canvas received.
func (c *Canvas) Counts() (renders, hides int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders, c.hides
}

// Frames returns the frames currently on the canvas, ordered by window id.
func (c *Canvas) Frames() []border.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]border.Frame, 0, len(c.frames))
	for _, f := range c.frames {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window < out[j].Window })
	return out
}

// Rasterize draws every border onto a width x height transparent image.
func (c *Canvas) Rasterize(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for _, f := range c.Frames() {
		drawFrame(img, f)
		if c.Labels {
			drawLabel(img, f)
		}
	}
	return img
}

// WritePNG rasterizes the canvas and encodes it as PNG.
func (c *Canvas) WritePNG(w io.Writer, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if err := png.Encode(w, c.Rasterize(width, height)); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	return nil
}

type rect struct {
	x0, y0, x1, y1 float64
	r              float64
}

func toRect(g model.Geometry, r float64) rect {
	return rect{
		x0: float64(g.X), y0: float64(g.Y),
		x1: float64(g.X + g.Width), y1: float64(g.Y + g.Height),
		r: math.Max(0, math.Min(r, math.Min(float64(g.Width), float64(g.Height))/2)),
	}
}

// contains tests the pixel center (px+0.5, py+0.5) against the rounded
// rectangle.
func (r rect) contains(px, py int) bool {
	x, y := float64(px)+0.5, float64(py)+0.5
	if x < r.x0 || x >= r.x1 || y < r.y0 || y >= r.y1 {
		return false
	}
	if r.r <= 0 {
		return true
	}
	cx := math.Max(r.x0+r.r, math.Min(x, r.x1-r.r))
	cy := math.Max(r.y0+r.r, math.Min(y, r.y1-r.r))
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r.r*r.r
}

func drawFrame(img *image.RGBA, f border.Frame) {
	if f.Width <= 0 {
		return
	}
	outerG, innerG := f.Outer(), f.Inner()
	if outerG.Empty() {
		return
	}
	radius := f.Radius.Pixels
	if f.Radius.Auto {
		radius = AutoRadius
	}
	outer := toRect(outerG, radius+float64(f.Width))
	inner := toRect(innerG, radius)

	b := img.Bounds().Intersect(image.Rect(outerG.X, outerG.Y, outerG.X+outerG.Width, outerG.Y+outerG.Height))
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			if !outer.contains(px, py) || (!innerG.Empty() && inner.contains(px, py)) {
				continue
			}
			t := gradientParam(f, px, py, outerG)
			c := f.ColorAt(t)
			blend(img, px, py, c, f.Alpha(t))
		}
	}
}

// gradientParam projects the pixel, in coordinates normalized to the border's
// bounding box, onto the rotated gradient vector.
func gradientParam(f border.Frame, px, py int, box model.Geometry) float64 {
	d := f.Color.Rotate(f.Params.Rotation())
	u := (float64(px-box.X) + 0.5) / float64(box.Width)
	v := (float64(py-box.Y) + 0.5) / float64(box.Height)
	vx, vy := d.End.X-d.Start.X, d.End.Y-d.Start.Y
	l2 := vx*vx + vy*vy
	if l2 == 0 {
		return 0
	}
	return ((u-d.Start.X)*vx + (v-d.Start.Y)*vy) / l2
}

func blend(img *image.RGBA, x, y int, c color.RGBA, alpha float64) {
	a := math.Max(0, math.Min(1, alpha))
	if a == 0 {
		return
	}
	dst := img.RGBAAt(x, y)
	mix := func(s float64, d uint8) uint8 {
		return uint8(math.Round(s*255*a + float64(d)*(1-a)))
	}
	img.SetRGBA(x, y, stdcolor.RGBA{
		R: mix(c.R, dst.R),
		G: mix(c.G, dst.G),
		B: mix(c.B, dst.B),
		A: uint8(math.Round(255*a + float64(dst.A)*(1-a))),
	})
}

// drawLabel writes the window id above the border's top-left corner.
func drawLabel(img *image.RGBA, f border.Frame) {
	outer := f.Outer()
	label := f.Window.String()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(stdcolor.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(outer.X),
			Y: fixed.I(outer.Y - 2),
		},
	}
	d.DrawString(label)
}

// Fill paints the whole image with a solid background.
func Fill(img *image.RGBA, c stdcolor.Color) {
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

package render

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/mj1618/desktop-borders/internal/animation"
	"github.com/mj1618/desktop-borders/internal/border"
	"github.com/mj1618/desktop-borders/internal/color"
	"github.com/mj1618/desktop-borders/internal/config"
	"github.com/mj1618/desktop-borders/internal/model"
	"github.com/mj1618/desktop-borders/internal/output"
)

func solidFrame(t *testing.T, id model.WindowID, hex string) border.Frame {
	t.Helper()
	desc, err := color.Resolve(color.Solid(hex), nil)
	if err != nil {
		t.Fatal(err)
	}
	return border.Frame{
		Window: id,
		State:  border.VisibleInactive,
		Bounds: model.Geometry{X: 10, Y: 10, Width: 40, Height: 30},
		Width:  4,
		Offset: 0,
		Radius: config.Radius{Pixels: 0},
		Color:  desc,
		Params: animation.Params{Opacity: 1},
	}
}

func TestLogCompositor_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewLogCompositor(&buf, output.FormatJSON)
	if err := c.RenderBorder(solidFrame(t, 1, "#ff0000")); err != nil {
		t.Fatal(err)
	}
	if err := c.HideBorder(1); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	var first output.FrameLine
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first.Event != "render" || first.Window != 1 || first.Colors[0] != "#ff0000" {
		t.Errorf("first = %+v", first)
	}
	if !strings.Contains(lines[1], `"event":"hide"`) {
		t.Errorf("second = %s", lines[1])
	}
}

func TestCanvas_KeepsLatestFrame(t *testing.T) {
	c := NewCanvas()
	c.RenderBorder(solidFrame(t, 2, "#ff0000"))
	c.RenderBorder(solidFrame(t, 1, "#00ff00"))
	c.RenderBorder(solidFrame(t, 2, "#0000ff"))

	frames := c.Frames()
	if len(frames) != 2 || frames[0].Window != 1 || frames[1].Color.Stops[0].Color.Hex() != "#0000ff" {
		t.Errorf("frames = %+v", frames)
	}
	c.HideBorder(2)
	if len(c.Frames()) != 1 {
		t.Error("hide did not remove the frame")
	}
	if r, h := c.Counts(); r != 3 || h != 1 {
		t.Errorf("counts = %d, %d", r, h)
	}
}

func TestCanvas_RasterizesRing(t *testing.T) {
	c := NewCanvas()
	c.RenderBorder(solidFrame(t, 1, "#ff0000"))
	img := c.Rasterize(80, 60)

	// Outer ring spans 6..54 x 6..44; the window interior is untouched.
	edge := img.RGBAAt(7, 20)
	if edge.R != 255 || edge.G != 0 || edge.A != 255 {
		t.Errorf("ring pixel = %+v", edge)
	}
	if inside := img.RGBAAt(30, 25); inside.A != 0 {
		t.Errorf("interior pixel = %+v", inside)
	}
	if outside := img.RGBAAt(2, 2); outside.A != 0 {
		t.Errorf("outside pixel = %+v", outside)
	}
}

func TestCanvas_OpacityScalesAlpha(t *testing.T) {
	c := NewCanvas()
	f := solidFrame(t, 1, "#ffffff")
	f.Params.Opacity = 0.5
	c.RenderBorder(f)
	px := c.Rasterize(80, 60).RGBAAt(7, 20)
	if px.A < 120 || px.A > 135 {
		t.Errorf("alpha = %d, want about half", px.A)
	}
}

func TestCanvas_RoundedCornersClipped(t *testing.T) {
	c := NewCanvas()
	f := solidFrame(t, 1, "#ffffff")
	f.Radius = config.AutoRadius
	c.RenderBorder(f)
	img := c.Rasterize(80, 60)
	if corner := img.RGBAAt(6, 6); corner.A != 0 {
		t.Errorf("rounded corner pixel drawn: %+v", corner)
	}
	if edge := img.RGBAAt(7, 25); edge.A == 0 {
		t.Error("straight edge missing")
	}
}

func TestCanvas_GradientVaries(t *testing.T) {
	desc, err := color.Resolve(color.NewGradient(color.Angle(0), "#000000", "#ffffff"), nil)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCanvas()
	f := solidFrame(t, 1, "#000000")
	f.Color = desc
	c.RenderBorder(f)
	img := c.Rasterize(80, 60)
	left, right := img.RGBAAt(7, 20), img.RGBAAt(52, 20)
	if left.R >= right.R {
		t.Errorf("left %v should be darker than right %v", left, right)
	}
}

func TestCanvas_WritePNG(t *testing.T) {
	c := NewCanvas()
	c.Labels = true
	c.RenderBorder(solidFrame(t, 0x2a, "#ff0000"))
	var buf bytes.Buffer
	if err := c.WritePNG(&buf, 80, 60); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("bounds = %v", b)
	}
	if err := c.WritePNG(&buf, 0, 10); err == nil {
		t.Error("expected error for empty canvas size")
	}
}

func TestLogCompositor_YAMLDocuments(t *testing.T) {
	var buf bytes.Buffer
	c := NewLogCompositor(&buf, output.FormatYAML)
	c.RenderBorder(solidFrame(t, 1, "#ff0000"))
	c.HideBorder(1)
	if n := strings.Count(buf.String(), "---\n"); n != 2 {
		t.Errorf("documents = %d:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "event: hide") {
		t.Errorf("output:\n%s", buf.String())
	}
}

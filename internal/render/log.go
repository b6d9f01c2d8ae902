// Package render provides compositors: a line-per-frame log for headless
// runs and an in-memory raster canvas.
package render

import (
	"io"
	"sync"

	"github.com/mj1618/desktop-borders/internal/border"
	"github.com/mj1618/desktop-borders/internal/model"
	"github.com/mj1618/desktop-borders/internal/output"
)

// LogCompositor writes one record per frame or hide to w.
type LogCompositor struct {
	mu     sync.Mutex
	w      io.Writer
	format output.Format
}

// NewLogCompositor returns a LogCompositor encoding in format. JSON yields
// one line per record; YAML yields one document per record.
func NewLogCompositor(w io.Writer, format output.Format) *LogCompositor {
	return &LogCompositor{w: w, format: format}
}

func (c *LogCompositor) RenderBorder(f border.Frame) error {
	return c.write(output.NewFrameLine(f))
}

func (c *LogCompositor) HideBorder(id model.WindowID) error {
	return c.write(output.HideLine(id))
}

func (c *LogCompositor) write(l output.FrameLine) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.format == output.FormatYAML {
		if _, err := io.WriteString(c.w, "---\n"); err != nil {
			return err
		}
	}
	return output.Encode(c.w, l, c.format, false)
}

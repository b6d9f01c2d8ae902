package platform

import (
	"strings"

	"github.com/mj1618/desktop-borders/internal/border"
	"github.com/mj1618/desktop-borders/internal/model"
)

// ListOptions controls window listing.
type ListOptions struct {
	Class            string // Filter by exact class name
	Title            string // Filter by title substring (case-insensitive)
	IncludeMinimized bool
}

// Match reports whether w passes the filter.
func (o ListOptions) Match(w model.Window) bool {
	if o.Class != "" && w.Class != o.Class {
		return false
	}
	if o.Title != "" && !strings.Contains(strings.ToLower(w.Title), strings.ToLower(o.Title)) {
		return false
	}
	if w.Minimized && !o.IncludeMinimized {
		return false
	}
	return true
}

// FilterWindows returns the windows passing opts, in order.
func FilterWindows(windows []model.Window, opts ListOptions) []model.Window {
	var out []model.Window
	for _, w := range windows {
		if opts.Match(w) {
			out = append(out, w)
		}
	}
	return out
}

// StaticAccent is an AccentSource with a fixed color. The empty string means
// no accent is available.
type StaticAccent string

func (s StaticAccent) CurrentAccentColor() (string, bool) {
	return string(s), s != ""
}

// NopCompositor discards every frame.
type NopCompositor struct{}

func (NopCompositor) RenderBorder(border.Frame) error { return nil }
func (NopCompositor) HideBorder(model.WindowID) error { return nil }

package platform

import (
	"context"

	"github.com/mj1618/desktop-borders/internal/border"
	"github.com/mj1618/desktop-borders/internal/model"
)

// Compositor draws border frames on screen.
type Compositor interface {
	// RenderBorder presents f, replacing whatever was drawn for f.Window.
	RenderBorder(f border.Frame) error

	// HideBorder removes the border of a window.
	HideBorder(id model.WindowID) error
}

// AccentSource reports the system accent color.
type AccentSource interface {
	CurrentAccentColor() (hex string, ok bool)
}

// WindowLister enumerates top-level windows.
type WindowLister interface {
	// ListWindows returns all windows, optionally filtered.
	ListWindows(opts ListOptions) ([]model.Window, error)
}

// EventSink receives window events. The border engine implements it.
type EventSink interface {
	WindowCreated(win model.Window) error
	WindowDestroyed(id model.WindowID) error
	FocusChanged(id model.WindowID, focused bool) error
	MinimizationChanged(id model.WindowID, minimized bool) error
	GeometryChanged(id model.WindowID, g model.Geometry) error
	TitleChanged(id model.WindowID, title string) error
}

// EventSource delivers window events to a sink until ctx is done.
type EventSource interface {
	Run(ctx context.Context, sink EventSink) error
}

package border

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mj1618/desktop-borders/internal/animation"
	"github.com/mj1618/desktop-borders/internal/color"
	"github.com/mj1618/desktop-borders/internal/delay"
	"github.com/mj1618/desktop-borders/internal/model"
	"github.com/mj1618/desktop-borders/internal/rules"
)

// Scheduler is the part of delay.Scheduler a border uses.
type Scheduler interface {
	Schedule(id model.WindowID, d time.Duration) delay.Handle
	Cancel(h delay.Handle) bool
}

// Options configures a new Border.
type Options struct {
	Scheduler Scheduler
	Accent    color.AccentLookup
	Logger    *slog.Logger
}

// Border is the lifecycle state machine of one tracked window. All methods
// are safe for concurrent use; calls on one Border are serialized.
type Border struct {
	mu sync.Mutex

	win    model.Window
	eff    rules.Effective
	state  State
	sched  Scheduler
	accent color.AccentLookup
	logger *slog.Logger

	pending  delay.Handle
	progress animation.Progress
	active   color.Description
	inactive color.Description
	from     *color.Description

	// retiring is set while a disabled border fades out before hiding.
	retiring bool
	// dirty forces a render on the next tick.
	dirty bool
	// hide reports a Hide on the next tick.
	hide bool
}

// New returns a Hidden border for win with effective config eff. Call Create
// to start its lifecycle.
func New(win model.Window, eff rules.Effective, opts Options) *Border {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Border{
		win:    win,
		eff:    eff,
		sched:  opts.Scheduler,
		accent: opts.Accent,
		logger: logger.With("window", win.ID.String()),
	}
}

// ID returns the window id.
func (b *Border) ID() model.WindowID {
	return b.win.ID
}

// State returns the current lifecycle state.
func (b *Border) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Create starts the lifecycle of a newly reported window. A disabled window
// stays Hidden for good; otherwise the initialize delay starts.
func (b *Border) Create() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Hidden {
		return
	}
	if !b.eff.Enabled {
		b.logger.Debug("borders disabled for window", "rule", b.eff.Rule)
		return
	}
	if b.win.Minimized {
		return
	}
	b.waitLocked(PendingInitialize, b.eff.InitializeDelay)
}

// DelayElapsed delivers an expired delay. Handles other than the one the
// border is waiting for are ignored. It reports whether the border changed.
func (b *Border) DelayElapsed(h delay.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if h.IsZero() || h != b.pending || !b.state.Pending() {
		return false
	}
	b.pending = delay.Handle{}
	b.showLocked()
	return true
}

// SetFocus records the window's focus and switches between the active and
// inactive appearance while visible.
func (b *Border) SetFocus(focused bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Destroyed || b.win.Focused == focused {
		return
	}
	b.win.Focused = focused
	if !b.state.Visible() {
		return
	}

	prev := b.state
	next := visibleFor(focused)
	b.setStateLocked(next)
	if b.retiring {
		return
	}

	set := b.setFor(next)
	if set.Has(animation.Fade) {
		from := b.colorFor(prev)
		b.from = &from
		b.progress.Start(set, 0, 1)
	} else {
		b.from = nil
		b.progress.Start(set, 1, 1)
	}
	b.dirty = true
}

// SetMinimized hides the border on minimize and starts the unminimize delay
// on restore.
func (b *Border) SetMinimized(minimized bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Destroyed || b.win.Minimized == minimized {
		return
	}
	b.win.Minimized = minimized

	if minimized {
		b.cancelLocked()
		if b.state.Visible() {
			b.hideLocked()
		} else {
			b.setStateLocked(Hidden)
		}
		return
	}
	if b.state == Hidden && b.eff.Enabled {
		b.waitLocked(PendingUnminimize, b.eff.UnminimizeDelay)
	}
}

// SetGeometry updates the window rectangle. Animation progress is unaffected.
func (b *Border) SetGeometry(g model.Geometry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Destroyed || b.win.Bounds == g {
		return
	}
	b.win.Bounds = g
	if b.state.Visible() {
		b.dirty = true
	}
}

// SetTitle records a new title. The caller re-resolves rules and calls
// Reconfigure.
func (b *Border) SetTitle(title string) (class string, changed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.win.Title == title {
		return b.win.Class, false
	}
	b.win.Title = title
	return b.win.Class, true
}

// Window returns the border's view of its window.
func (b *Border) Window() model.Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.win
}

// Reconfigure applies a recomputed effective config. A border that becomes
// disabled fades out (when its current set has Fade) and hides; one that
// becomes enabled starts the initialize delay.
func (b *Border) Reconfigure(eff rules.Effective) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Destroyed {
		return
	}
	wasEnabled := b.eff.Enabled
	b.eff = eff

	switch {
	case wasEnabled && !eff.Enabled:
		b.cancelLocked()
		switch {
		case b.state.Pending():
			b.setStateLocked(Hidden)
		case b.state.Visible() && b.progress.FadeTo(0):
			b.retiring = true
			b.from = nil
			b.dirty = true
		case b.state.Visible():
			b.hideLocked()
		}

	case !wasEnabled && eff.Enabled:
		switch {
		case b.retiring:
			// Still fading out: turn around from the current opacity.
			b.retiring = false
			b.resolveColorsLocked()
			b.progress.Start(b.setFor(b.state), b.progress.FadePhase(), 1)
			b.from = nil
			b.dirty = true
		case b.state == Hidden && !b.win.Minimized:
			b.waitLocked(PendingInitialize, eff.InitializeDelay)
		}

	case eff.Enabled && b.state.Visible():
		b.resolveColorsLocked()
		b.progress.Start(b.setFor(b.state), 1, 1)
		b.from = nil
		b.dirty = true
	}
}

// Destroy ends the lifecycle and cancels any pending delay. It reports
// whether a border was on screen.
func (b *Border) Destroy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Destroyed {
		return false
	}
	b.cancelLocked()
	shown := b.state.Visible() || b.hide
	b.progress.Stop()
	b.hide = false
	b.dirty = false
	b.setStateLocked(Destroyed)
	return shown
}

// Tick advances animations by elapsed and reports what the presenter should
// do. A Frame is returned with Render.
func (b *Border) Tick(elapsed time.Duration) (Frame, Action) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.hide {
		b.hide = false
		return Frame{}, Hide
	}
	if !b.state.Visible() {
		return Frame{}, None
	}

	animating := b.progress.Fading() || b.progress.Continuous()
	params := b.progress.Advance(elapsed)

	if b.retiring && !params.Fading {
		b.retiring = false
		b.setStateLocked(Hidden)
		b.progress.Stop()
		return Frame{}, Hide
	}
	if !animating && !b.dirty {
		return Frame{}, None
	}
	b.dirty = false

	f := Frame{
		Window: b.win.ID,
		State:  b.state,
		Bounds: b.win.Bounds,
		Width:  b.eff.BorderWidth,
		Offset: b.eff.BorderOffset,
		Radius: b.eff.BorderRadius,
		Color:  b.colorFor(b.state),
		Params: params,
	}
	if b.from != nil {
		from := *b.from
		f.From = &from
		if !params.Fading {
			b.from = nil
		}
	}
	return f, Render
}

// Status is a point-in-time view of a border.
type Status struct {
	Window    model.Window     `json:"window"              yaml:"window"`
	State     State            `json:"state"               yaml:"state"`
	Enabled   bool             `json:"enabled"             yaml:"enabled"`
	Rule      int              `json:"rule"                yaml:"rule"`
	Pending   string           `json:"pending,omitempty"   yaml:"pending,omitempty"`
	Animating []animation.Kind `json:"animating,omitempty" yaml:"animating,omitempty"`
	Opacity   float64          `json:"opacity"             yaml:"opacity"`
	Retiring  bool             `json:"retiring,omitempty"  yaml:"retiring,omitempty"`
}

// Status returns a snapshot of the border.
func (b *Border) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := Status{
		Window:   b.win,
		State:    b.state,
		Enabled:  b.eff.Enabled,
		Rule:     b.eff.Rule,
		Retiring: b.retiring,
	}
	if !b.pending.IsZero() {
		st.Pending = b.pending.String()
	}
	if b.state.Visible() {
		p := b.progress.Params()
		st.Animating = p.Kinds
		st.Opacity = p.Opacity
	}
	return st
}

// waitLocked enters a pending state for ms milliseconds. A zero delay shows
// the border immediately.
func (b *Border) waitLocked(state State, ms int) {
	b.cancelLocked()
	if ms <= 0 {
		b.setStateLocked(state)
		b.showLocked()
		return
	}
	b.setStateLocked(state)
	b.pending = b.sched.Schedule(b.win.ID, time.Duration(ms)*time.Millisecond)
}

func (b *Border) cancelLocked() {
	if b.pending.IsZero() {
		return
	}
	b.sched.Cancel(b.pending)
	b.pending = delay.Handle{}
}

func (b *Border) showLocked() {
	b.resolveColorsLocked()
	next := visibleFor(b.win.Focused)
	b.setStateLocked(next)
	b.progress.Start(b.setFor(next), 0, 1)
	b.from = nil
	b.retiring = false
	b.hide = false
	b.dirty = true
}

func (b *Border) hideLocked() {
	b.progress.Stop()
	b.from = nil
	b.retiring = false
	b.dirty = false
	b.hide = true
	b.setStateLocked(Hidden)
}

func (b *Border) setStateLocked(s State) {
	if b.state == s {
		return
	}
	b.logger.Debug("border state", "from", b.state, "to", s)
	b.state = s
}

func (b *Border) resolveColorsLocked() {
	var err error
	if b.active, err = color.ResolveOrFallback(b.eff.ActiveColor, b.accent); err != nil {
		b.logger.Warn("active color unavailable, using fallback", "color", b.eff.ActiveColor.String(), "error", err)
	}
	if b.inactive, err = color.ResolveOrFallback(b.eff.InactiveColor, b.accent); err != nil {
		b.logger.Warn("inactive color unavailable, using fallback", "color", b.eff.InactiveColor.String(), "error", err)
	}
}

func (b *Border) colorFor(s State) color.Description {
	if s == VisibleActive {
		return b.active
	}
	return b.inactive
}

func (b *Border) setFor(s State) animation.Set {
	if s == VisibleActive {
		return b.eff.Animations.Active
	}
	return b.eff.Animations.Inactive
}

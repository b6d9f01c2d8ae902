// Package engine is the window registry and event dispatcher. It owns one
// border state machine per tracked window, routes window events and delay
// expirations to them, and drives the shared frame tick.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mj1618/desktop-borders/internal/animation"
	"github.com/mj1618/desktop-borders/internal/border"
	"github.com/mj1618/desktop-borders/internal/clock"
	"github.com/mj1618/desktop-borders/internal/color"
	"github.com/mj1618/desktop-borders/internal/config"
	"github.com/mj1618/desktop-borders/internal/delay"
	"github.com/mj1618/desktop-borders/internal/model"
	"github.com/mj1618/desktop-borders/internal/platform"
	"github.com/mj1618/desktop-borders/internal/rules"
	"golang.org/x/time/rate"
)

// ErrUnknownWindow is returned for events about windows that are not tracked.
var ErrUnknownWindow = errors.New("unknown window")

// ErrClosed is returned by operations on a closed Engine.
var ErrClosed = errors.New("engine closed")

// Options configures an Engine. Zero values select the real clock, a no-op
// compositor, no accent color and a discarding logger.
type Options struct {
	Clock      clock.Clock
	Compositor platform.Compositor
	Accent     color.AccentLookup
	Logger     *slog.Logger

	// UnknownLimit throttles unknown-window diagnostics. Zero means one per
	// second with a burst of 5.
	UnknownLimit rate.Limit
}

type tracked struct {
	border  *border.Border
	present *presenter
}

// Engine is safe for concurrent use.
type Engine struct {
	clock      clock.Clock
	compositor platform.Compositor
	accent     color.AccentLookup
	logger     *slog.Logger
	sched      *delay.Scheduler

	unknown    *rate.Limiter
	suppressed atomic.Int64

	mu      sync.RWMutex
	matcher *rules.Matcher
	fps     int
	windows map[model.WindowID]*tracked
	closed  bool
	// closing holds presenters of destroyed windows until their loop exits.
	closing map[*presenter]struct{}

	// focusMu serializes focus hand-over between windows.
	focusMu sync.Mutex
	focused model.WindowID

	reloaded   chan struct{}
	presenters sync.WaitGroup
}

// New returns an Engine for cfg. Rule diagnostics are logged at Warn.
func New(cfg *config.Config, opts Options) *Engine {
	e := &Engine{
		clock:      opts.Clock,
		compositor: opts.Compositor,
		accent:     opts.Accent,
		logger:     opts.Logger,
		windows:    make(map[model.WindowID]*tracked),
		closing:    make(map[*presenter]struct{}),
		reloaded:   make(chan struct{}, 1),
	}
	if e.clock == nil {
		e.clock = clock.Real()
	}
	if e.compositor == nil {
		e.compositor = platform.NopCompositor{}
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	limit := opts.UnknownLimit
	if limit == 0 {
		limit = rate.Every(time.Second)
	}
	e.unknown = rate.NewLimiter(limit, 5)
	e.sched = delay.New(e.clock, e.fire)
	e.setConfig(cfg)
	return e
}

func (e *Engine) setConfig(cfg *config.Config) *rules.Matcher {
	m := rules.New(cfg)
	for _, d := range m.Diagnostics() {
		e.logger.Warn("window rule disabled", "error", d)
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = animation.DefaultFPS
	}
	e.mu.Lock()
	e.matcher = m
	e.fps = fps
	e.mu.Unlock()
	return m
}

// FPS returns the current target frame rate.
func (e *Engine) FPS() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fps
}

// Diagnostics returns the rule problems of the current configuration.
func (e *Engine) Diagnostics() []error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.matcher.Diagnostics()
}

func (e *Engine) lookup(op string, id model.WindowID) (*tracked, error) {
	e.mu.RLock()
	t, ok := e.windows[id]
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	if !ok {
		e.reportUnknown(op, id)
		return nil, fmt.Errorf("%s %s: %w", op, id, ErrUnknownWindow)
	}
	return t, nil
}

func (e *Engine) reportUnknown(op string, id model.WindowID) {
	if !e.unknown.Allow() {
		e.suppressed.Add(1)
		return
	}
	e.logger.Debug("event for unknown window dropped",
		"op", op, "window", id.String(), "suppressed", e.suppressed.Swap(0))
}

// WindowCreated starts tracking win. The rule matcher runs once here. A
// window that is already tracked only has its geometry updated.
func (e *Engine) WindowCreated(win model.Window) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if t, ok := e.windows[win.ID]; ok {
		e.mu.Unlock()
		t.border.SetGeometry(win.Bounds)
		return nil
	}
	eff := e.matcher.Resolve(win.Class, win.Title)
	b := border.New(win, eff, border.Options{
		Scheduler: e.sched,
		Accent:    e.accent,
		Logger:    e.logger,
	})
	p := newPresenter(win.ID, e.compositor, e.logger)
	e.windows[win.ID] = &tracked{border: b, present: p}
	e.presenters.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.presenters.Done()
		p.run()
		e.mu.Lock()
		delete(e.closing, p)
		e.mu.Unlock()
	}()

	e.logger.Debug("window tracked", "window", win.ID.String(), "class", win.Class,
		"title", win.Title, "enabled", eff.Enabled, "rule", eff.Rule)
	if win.Focused {
		e.takeFocus(win.ID)
	}
	b.Create()
	return nil
}

// WindowDestroyed stops tracking id. Its pending delay is cancelled and no
// later callback fires for it.
func (e *Engine) WindowDestroyed(id model.WindowID) error {
	e.mu.Lock()
	t, ok := e.windows[id]
	if ok {
		delete(e.windows, id)
		e.closing[t.present] = struct{}{}
	}
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if !ok {
		e.reportUnknown("destroy", id)
		return fmt.Errorf("destroy %s: %w", id, ErrUnknownWindow)
	}

	e.focusMu.Lock()
	if e.focused == id {
		e.focused = 0
	}
	e.focusMu.Unlock()

	shown := t.border.Destroy()
	t.present.close(shown)
	e.logger.Debug("window untracked", "window", id.String())
	return nil
}

// FocusChanged records focus for id. Focus is exclusive: when id gains it,
// the previously focused window loses it.
func (e *Engine) FocusChanged(id model.WindowID, focused bool) error {
	t, err := e.lookup("focus", id)
	if err != nil {
		return err
	}
	if focused {
		e.takeFocus(id)
		return nil
	}
	e.focusMu.Lock()
	if e.focused == id {
		e.focused = 0
	}
	e.focusMu.Unlock()
	t.border.SetFocus(false)
	return nil
}

func (e *Engine) takeFocus(id model.WindowID) {
	e.focusMu.Lock()
	defer e.focusMu.Unlock()

	prev := e.focused
	e.focused = id
	e.mu.RLock()
	prevT := e.windows[prev]
	curT := e.windows[id]
	e.mu.RUnlock()

	if prev != id && prevT != nil {
		prevT.border.SetFocus(false)
	}
	if curT != nil {
		curT.border.SetFocus(true)
	}
}

// Focused returns the window holding focus, if any is tracked.
func (e *Engine) Focused() (model.WindowID, bool) {
	e.focusMu.Lock()
	defer e.focusMu.Unlock()
	return e.focused, e.focused != 0
}

// MinimizationChanged hides the border on minimize and restores it after the
// unminimize delay.
func (e *Engine) MinimizationChanged(id model.WindowID, minimized bool) error {
	t, err := e.lookup("minimize", id)
	if err != nil {
		return err
	}
	t.border.SetMinimized(minimized)
	return nil
}

// GeometryChanged updates the rectangle the border is drawn around.
func (e *Engine) GeometryChanged(id model.WindowID, g model.Geometry) error {
	t, err := e.lookup("geometry", id)
	if err != nil {
		return err
	}
	t.border.SetGeometry(g)
	return nil
}

// TitleChanged re-runs the rule matcher for id with its new title.
func (e *Engine) TitleChanged(id model.WindowID, title string) error {
	t, err := e.lookup("title", id)
	if err != nil {
		return err
	}
	class, changed := t.border.SetTitle(title)
	if !changed {
		return nil
	}
	e.mu.RLock()
	m := e.matcher
	e.mu.RUnlock()
	t.border.Reconfigure(m.Resolve(class, title))
	return nil
}

// Reload switches to cfg and recomputes every tracked window's effective
// configuration.
func (e *Engine) Reload(cfg *config.Config) {
	m := e.setConfig(cfg)
	for _, t := range e.all() {
		w := t.border.Window()
		t.border.Reconfigure(m.Resolve(w.Class, w.Title))
	}
	select {
	case e.reloaded <- struct{}{}:
	default:
	}
	e.logger.Info("configuration reloaded", "rules", m.Len(), "fps", cfg.FPS)
}

// fire routes an expired delay to its window. Destroyed windows are no longer
// in the registry, so their delays are dropped here.
func (e *Engine) fire(h delay.Handle) {
	e.mu.RLock()
	t, ok := e.windows[h.Window]
	e.mu.RUnlock()
	if !ok {
		return
	}
	t.border.DelayElapsed(h)
}

func (e *Engine) all() []*tracked {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*tracked, 0, len(e.windows))
	for _, t := range e.windows {
		out = append(out, t)
	}
	return out
}

// Tick advances every tracked window by elapsed and posts the resulting
// frames to the presenters. It never waits on the compositor.
func (e *Engine) Tick(elapsed time.Duration) {
	for _, t := range e.all() {
		f, act := t.border.Tick(elapsed)
		if act != border.None {
			t.present.post(job{action: act, frame: f})
		}
	}
}

// Run drives Tick at the configured frame rate until ctx is done. A reload
// that changes the frame rate takes effect on the next tick.
func (e *Engine) Run(ctx context.Context) error {
	fps := e.FPS()
	ticker := e.clock.NewTicker(animation.FrameInterval(fps))
	defer ticker.Stop()

	last := e.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.reloaded:
			if f := e.FPS(); f != fps {
				fps = f
				ticker.Reset(animation.FrameInterval(fps))
			}
		case now := <-ticker.C:
			e.Tick(now.Sub(last))
			last = now
		}
	}
}

// Flush blocks until every presenter has handed its latest frame to the
// compositor. This includes the final hide of windows destroyed before the
// call.
func (e *Engine) Flush() {
	e.mu.RLock()
	ps := make([]*presenter, 0, len(e.windows)+len(e.closing))
	for _, t := range e.windows {
		ps = append(ps, t.present)
	}
	for p := range e.closing {
		ps = append(ps, p)
	}
	e.mu.RUnlock()
	for _, p := range ps {
		p.idle()
	}
}

// Snapshot returns the status of every tracked window, ordered by id.
func (e *Engine) Snapshot() []border.Status {
	ts := e.all()
	out := make([]border.Status, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.border.Status())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window.ID < out[j].Window.ID })
	return out
}

// Len returns the number of tracked windows.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.windows)
}

// Close destroys every tracked window, hides their borders and waits for the
// presenters to finish.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	windows := e.windows
	e.windows = make(map[model.WindowID]*tracked)
	e.mu.Unlock()

	e.sched.Stop()
	for _, t := range windows {
		t.present.close(t.border.Destroy())
	}
	e.presenters.Wait()
	return nil
}

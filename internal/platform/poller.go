package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mj1618/desktop-borders/internal/clock"
	"github.com/mj1618/desktop-borders/internal/model"
)

// DefaultPollInterval is how often a Poller lists windows.
const DefaultPollInterval = 100 * time.Millisecond

// PollerOptions configures a Poller.
type PollerOptions struct {
	Interval time.Duration
	Clock    clock.Clock
	Logger   *slog.Logger
	Filter   ListOptions
}

// Poller turns periodic window listings into events by diffing consecutive
// snapshots. It is an EventSource for platforms without a window hook.
type Poller struct {
	lister   WindowLister
	interval time.Duration
	clock    clock.Clock
	logger   *slog.Logger
	filter   ListOptions

	prev []model.Window
}

// NewPoller returns a Poller over lister.
func NewPoller(lister WindowLister, opts PollerOptions) *Poller {
	p := &Poller{
		lister:   lister,
		interval: opts.Interval,
		clock:    opts.Clock,
		logger:   opts.Logger,
		filter:   opts.Filter,
	}
	if p.interval <= 0 {
		p.interval = DefaultPollInterval
	}
	if p.clock == nil {
		p.clock = clock.Real()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	// Minimized windows must stay listed so restores are seen.
	p.filter.IncludeMinimized = true
	return p
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context, sink EventSink) error {
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.Poll(sink); err != nil {
			p.logger.Warn("window poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll lists windows once and sends the differences from the previous
// listing to sink. Sink errors are logged, not returned.
func (p *Poller) Poll(sink EventSink) error {
	windows, err := p.lister.ListWindows(p.filter)
	if err != nil {
		return fmt.Errorf("list windows: %w", err)
	}
	windows = FilterWindows(windows, p.filter)

	for _, c := range model.DiffWindows(p.prev, windows) {
		for _, err := range dispatch(sink, c) {
			p.logger.Debug("window event rejected", "window", c.ID.String(), "change", c.Type, "error", err)
		}
	}
	p.prev = windows
	return nil
}

func dispatch(sink EventSink, c model.WindowChange) []error {
	var errs []error
	keep := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	switch c.Type {
	case model.ChangeAdded:
		keep(sink.WindowCreated(c.Window))
	case model.ChangeRemoved:
		keep(sink.WindowDestroyed(c.ID))
	case model.ChangeChanged:
		if c.Has(model.FieldTitle) {
			keep(sink.TitleChanged(c.ID, c.Window.Title))
		}
		if c.Has(model.FieldBounds) {
			keep(sink.GeometryChanged(c.ID, c.Window.Bounds))
		}
		if c.Has(model.FieldMinimized) {
			keep(sink.MinimizationChanged(c.ID, c.Window.Minimized))
		}
		if c.Has(model.FieldFocused) {
			keep(sink.FocusChanged(c.ID, c.Window.Focused))
		}
	}
	return errs
}

package script

import (
	"fmt"
	"time"

	"github.com/mj1618/desktop-borders/internal/clock"
	"github.com/mj1618/desktop-borders/internal/platform"
)

// Target is what a simulation drives: the event operations plus the frame
// tick.
type Target interface {
	platform.EventSink
	Tick(elapsed time.Duration)
}

// SimOptions configures Simulate.
type SimOptions struct {
	// Frame is the tick interval.
	Frame time.Duration
	// Tail keeps ticking this long after the last step.
	Tail time.Duration
	// OnError receives rejected steps; nil ignores them.
	OnError func(Step, error)
}

// Simulate replays s against target on a fake clock. Steps are applied at
// their exact offsets; the frame tick runs every opts.Frame of fake time.
// Delays scheduled on clk fire as the clock passes them.
func Simulate(target Target, clk *clock.FakeClock, s *Script, opts SimOptions) error {
	if opts.Frame <= 0 {
		return fmt.Errorf("simulate: non-positive frame interval %s", opts.Frame)
	}
	end := s.Duration() + opts.Tail

	var now time.Duration
	nextFrame := opts.Frame
	idx := 0
	for {
		for idx < len(s.Steps) && s.Steps[idx].At <= now {
			st := s.Steps[idx]
			if err := s.Apply(target, st); err != nil && opts.OnError != nil {
				opts.OnError(st, err)
			}
			idx++
		}
		if now >= end {
			return nil
		}

		next := nextFrame
		if idx < len(s.Steps) && s.Steps[idx].At < next {
			next = s.Steps[idx].At
		}
		clk.Advance(next - now)
		now = next
		if now == nextFrame {
			target.Tick(opts.Frame)
			nextFrame += opts.Frame
		}
	}
}

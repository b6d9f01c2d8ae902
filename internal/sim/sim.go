// Package sim replays a scripted window timeline against a fresh engine on a
// fake clock and reports what the compositor saw.
package sim

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mj1618/desktop-borders/internal/animation"
	"github.com/mj1618/desktop-borders/internal/clock"
	"github.com/mj1618/desktop-borders/internal/color"
	"github.com/mj1618/desktop-borders/internal/config"
	"github.com/mj1618/desktop-borders/internal/engine"
	"github.com/mj1618/desktop-borders/internal/output"
	"github.com/mj1618/desktop-borders/internal/platform/script"
	"github.com/mj1618/desktop-borders/internal/render"
)

// Epoch is the fake clock's start time.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Options configures Run.
type Options struct {
	// Tail keeps ticking this long after the last step.
	Tail   time.Duration
	Accent color.AccentLookup
	Logger *slog.Logger
	// Labels draws window ids on the canvas.
	Labels bool
}

// Result is the outcome of a simulation. Canvas holds the borders visible
// when the script ended; later engine shutdown does not touch it.
type Result struct {
	output.SimulateResult
	Canvas *render.Canvas
}

// ticker counts frames and waits for the presenters after every tick so the
// canvas sees each frame.
type ticker struct {
	*engine.Engine
	frames int
}

func (t *ticker) Tick(elapsed time.Duration) {
	t.Engine.Tick(elapsed)
	t.Engine.Flush()
	t.frames++
}

// Run replays s under cfg.
func Run(cfg *config.Config, s *script.Script, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clk := clock.Fake(Epoch)
	canvas := render.NewCanvas()
	canvas.Labels = opts.Labels

	eng := engine.New(cfg, engine.Options{
		Clock:      clk,
		Compositor: canvas,
		Accent:     opts.Accent,
		Logger:     logger,
	})
	defer eng.Close()

	res := &Result{}
	t := &ticker{Engine: eng}
	err := script.Simulate(t, clk, s, script.SimOptions{
		Frame: animation.FrameInterval(eng.FPS()),
		Tail:  opts.Tail,
		OnError: func(st script.Step, err error) {
			logger.Debug("script step rejected", "step", st.String(), "error", err)
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", st, err))
		},
	})
	if err != nil {
		return nil, err
	}
	eng.Flush()

	res.Duration = (s.Duration() + opts.Tail).String()
	res.Frames = t.frames
	res.Renders, res.Hides = canvas.Counts()
	res.Windows = eng.Snapshot()
	res.Canvas = canvas.Clone()
	return res, nil
}

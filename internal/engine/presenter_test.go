package engine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mj1618/desktop-borders/internal/border"
	"github.com/mj1618/desktop-borders/internal/clock"
)

func TestPresenter_LatestWins(t *testing.T) {
	clk := clock.Fake(epoch)
	rec := &recorder{clk: clk, start: clk.Now()}
	slow := &blockingCompositor{release: make(chan struct{}), rec: rec}
	p := newPresenter(1, slow, slog.New(slog.NewTextHandler(io.Discard, nil)))
	done := make(chan struct{})
	go func() {
		p.run()
		close(done)
	}()

	p.post(job{action: border.Render, frame: border.Frame{Window: 1, Width: 1}})
	// Wait until the first frame is in flight.
	for {
		p.mu.Lock()
		busy := p.busy
		p.mu.Unlock()
		if busy {
			break
		}
		time.Sleep(time.Millisecond)
	}
	for w := 2; w <= 5; w++ {
		p.post(job{action: border.Render, frame: border.Frame{Window: 1, Width: w}})
	}
	close(slow.release)
	p.idle()

	renders, _ := rec.forWindow(1)
	if len(renders) != 2 || renders[0].frame.Width != 1 || renders[1].frame.Width != 5 {
		t.Errorf("presented widths = %v", renders)
	}

	p.close(true)
	<-done
	if _, hides := rec.forWindow(1); hides != 1 {
		t.Errorf("hides = %d, want 1", hides)
	}
	p.post(job{action: border.Render})
	if renders, _ := rec.forWindow(1); len(renders) != 2 {
		t.Error("post after close was presented")
	}
}

package engine

import (
	"log/slog"
	"sync"

	"github.com/mj1618/desktop-borders/internal/border"
	"github.com/mj1618/desktop-borders/internal/model"
	"github.com/mj1618/desktop-borders/internal/platform"
)

type job struct {
	action border.Action
	frame  border.Frame
}

// presenter hands one window's frames to the compositor on its own
// goroutine. Only the latest job is kept, so a slow compositor drops stale
// frames instead of holding up the tick.
type presenter struct {
	id         model.WindowID
	compositor platform.Compositor
	logger     *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	next   *job
	busy   bool
	closed bool
}

func newPresenter(id model.WindowID, c platform.Compositor, logger *slog.Logger) *presenter {
	p := &presenter{id: id, compositor: c, logger: logger}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// post replaces any queued job. It never blocks on the compositor.
func (p *presenter) post(j job) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.next = &j
	p.cond.Broadcast()
}

// close queues a final hide when hide is set and stops the loop once the
// queue drains.
func (p *presenter) close(hide bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if hide {
		p.next = &job{action: border.Hide}
	} else {
		p.next = nil
	}
	p.cond.Broadcast()
}

// idle blocks until nothing is queued or in flight.
func (p *presenter) idle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.next != nil || p.busy {
		p.cond.Wait()
	}
}

func (p *presenter) run() {
	for {
		p.mu.Lock()
		for p.next == nil && !p.closed {
			p.cond.Wait()
		}
		if p.next == nil {
			p.mu.Unlock()
			return
		}
		j := *p.next
		p.next = nil
		p.busy = true
		p.mu.Unlock()

		p.present(j)

		p.mu.Lock()
		p.busy = false
		p.cond.Broadcast()
		p.mu.Unlock()
	}
}

func (p *presenter) present(j job) {
	var err error
	switch j.action {
	case border.Render:
		err = p.compositor.RenderBorder(j.frame)
	case border.Hide:
		err = p.compositor.HideBorder(p.id)
	}
	if err != nil {
		p.logger.Warn("compositor failed", "window", p.id.String(), "action", j.action.String(), "error", err)
	}
}

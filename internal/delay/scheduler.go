// Package delay schedules the deferred lifecycle transitions of tracked
// windows. Each window has at most one pending delay; scheduling another
// replaces it.
package delay

import (
	"fmt"
	"sync"
	"time"

	"github.com/mj1618/desktop-borders/internal/clock"
	"github.com/mj1618/desktop-borders/internal/model"
)

// Handle identifies one scheduled delay. The zero Handle is never issued.
type Handle struct {
	Window model.WindowID
	Seq    uint64
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.Seq == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("%s#%d", h.Window, h.Seq)
}

// FireFunc receives expired delays. It is called without any scheduler lock
// held, from the clock's timer goroutine.
type FireFunc func(Handle)

type entry struct {
	handle Handle
	timer  *clock.Timer
}

// Scheduler is safe for concurrent use.
type Scheduler struct {
	clock clock.Clock
	fire  FireFunc

	mu      sync.Mutex
	seq     uint64
	pending map[model.WindowID]entry
}

// New returns a Scheduler that reports expirations to fire.
func New(clk clock.Clock, fire FireFunc) *Scheduler {
	return &Scheduler{
		clock:   clk,
		fire:    fire,
		pending: make(map[model.WindowID]entry),
	}
}

// Schedule arranges for fire to receive the returned Handle after d, and
// cancels any delay already pending for id. A non-positive d fires on the
// next timer pass rather than synchronously.
func (s *Scheduler) Schedule(id model.WindowID, d time.Duration) Handle {
	if d <= 0 {
		d = time.Nanosecond
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.pending[id]; ok {
		prev.timer.Stop()
	}
	s.seq++
	h := Handle{Window: id, Seq: s.seq}
	t := s.clock.AfterFunc(d, func() { s.expire(h) })
	s.pending[id] = entry{handle: h, timer: t}
	return h
}

// Cancel stops h if it is still the pending delay for its window. It
// reports whether a pending delay was cancelled.
func (s *Scheduler) Cancel(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pending[h.Window]
	if !ok || e.handle != h {
		return false
	}
	e.timer.Stop()
	delete(s.pending, h.Window)
	return true
}

// CancelWindow stops whatever delay is pending for id.
func (s *Scheduler) CancelWindow(id model.WindowID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pending[id]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.pending, id)
	return true
}

// Pending returns the delay pending for id.
func (s *Scheduler) Pending(id model.WindowID) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.pending[id]
	return e.handle, ok
}

// Len is the number of pending delays.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels every pending delay.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.pending {
		e.timer.Stop()
		delete(s.pending, id)
	}
}

// expire delivers h unless it was cancelled or superseded. A timer that
// fires concurrently with Cancel loses the race here.
func (s *Scheduler) expire(h Handle) {
	s.mu.Lock()
	e, ok := s.pending[h.Window]
	if !ok || e.handle != h {
		s.mu.Unlock()
		return
	}
	delete(s.pending, h.Window)
	s.mu.Unlock()

	s.fire(h)
}

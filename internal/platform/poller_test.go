package platform

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/desktop-borders/internal/clock"
	"github.com/mj1618/desktop-borders/internal/model"
)

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) add(format string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, fmt.Sprintf(format, args...))
	return nil
}

func (s *recordingSink) got() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func (s *recordingSink) WindowCreated(w model.Window) error {
	return s.add("create %d %s", w.ID, w.Title)
}
func (s *recordingSink) WindowDestroyed(id model.WindowID) error { return s.add("destroy %d", id) }
func (s *recordingSink) FocusChanged(id model.WindowID, f bool) error {
	return s.add("focus %d %v", id, f)
}
func (s *recordingSink) MinimizationChanged(id model.WindowID, m bool) error {
	return s.add("minimize %d %v", id, m)
}
func (s *recordingSink) GeometryChanged(id model.WindowID, g model.Geometry) error {
	return s.add("move %d %d,%d", id, g.X, g.Y)
}
func (s *recordingSink) TitleChanged(id model.WindowID, title string) error {
	return s.add("title %d %s", id, title)
}

type snapshots struct {
	mu    sync.Mutex
	lists [][]model.Window
	calls int
}

func (s *snapshots) ListWindows(ListOptions) ([]model.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.lists) {
		i = len(s.lists) - 1
	}
	s.calls++
	return s.lists[i], nil
}

func TestPoller_Poll(t *testing.T) {
	a := model.Window{ID: 1, Class: "A", Title: "one"}
	b := model.Window{ID: 2, Class: "B", Title: "two", Focused: true}
	a2 := a
	a2.Title = "uno"
	a2.Bounds = model.Geometry{X: 5, Y: 6, Width: 10, Height: 10}
	a2.Focused = true
	a2.Minimized = true

	lister := &snapshots{lists: [][]model.Window{
		{a, b},
		{a2},
	}}
	sink := &recordingSink{}
	p := NewPoller(lister, PollerOptions{})

	if err := p.Poll(sink); err != nil {
		t.Fatal(err)
	}
	if err := p.Poll(sink); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"create 1 one",
		"create 2 two",
		"title 1 uno",
		"move 1 5,6",
		"minimize 1 true",
		"focus 1 true",
		"destroy 2",
	}
	got := sink.got()
	if len(got) != len(want) {
		t.Fatalf("events = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPoller_Filter(t *testing.T) {
	lister := &snapshots{lists: [][]model.Window{{
		{ID: 1, Class: "Keep"},
		{ID: 2, Class: "Drop"},
		{ID: 3, Class: "Keep", Minimized: true},
	}}}
	sink := &recordingSink{}
	p := NewPoller(lister, PollerOptions{Filter: ListOptions{Class: "Keep"}})
	if err := p.Poll(sink); err != nil {
		t.Fatal(err)
	}
	if got := sink.got(); len(got) != 2 || got[0] != "create 1 " || got[1] != "create 3 " {
		t.Errorf("events = %q", got)
	}
}

func TestPoller_Run(t *testing.T) {
	clk := clock.Fake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	lister := &snapshots{lists: [][]model.Window{
		{{ID: 1, Title: "a"}},
		{{ID: 1, Title: "b"}},
	}}
	sink := &recordingSink{}
	p := NewPoller(lister, PollerOptions{Clock: clk, Interval: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, sink) }()

	clk.WaitForTimers(1)
	for len(sink.got()) < 1 {
		time.Sleep(time.Millisecond)
	}
	clk.Advance(time.Second)
	for len(sink.got()) < 2 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := sink.got(); got[1] != "title 1 b" {
		t.Errorf("events = %q", got)
	}
}

package script

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/desktop-borders/internal/clock"
	"github.com/mj1618/desktop-borders/internal/model"
)

const sample = `
windows:
  - {id: 1, class: Notepad, title: notes.txt, bounds: "100,100,640,480"}
  - {id: 0x2a, class: Zebar, title: Zebar}
steps:
  - {at: 1s, op: Destroy, id: 1}
  - {at: 0s, op: create, id: 1}
  - {at: 0s, op: create, id: 0x2a}
  - {at: 250ms, op: focus, id: 1}
  - {at: 300ms, op: move, id: 1, bounds: "0,0,10,10"}
  - {at: 400ms, op: title, id: 1, title: "renamed"}
  - {at: 500ms, op: minimize, id: 1}
  - {at: 600ms, op: restore, id: 1}
  - {at: 700ms, op: blur, id: 1}
`

type sink struct {
	mu     sync.Mutex
	clk    clock.Clock
	start  time.Time
	events []string
	ticks  int
}

func (s *sink) add(format string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := ""
	if s.clk != nil {
		prefix = s.clk.Now().Sub(s.start).String() + " "
	}
	s.events = append(s.events, prefix+fmt.Sprintf(format, args...))
	return nil
}

func (s *sink) WindowCreated(w model.Window) error { return s.add("create %s %s", w.ID, w.Class) }
func (s *sink) WindowDestroyed(id model.WindowID) error {
	return s.add("destroy %s", id)
}
func (s *sink) FocusChanged(id model.WindowID, f bool) error { return s.add("focus %s %v", id, f) }
func (s *sink) MinimizationChanged(id model.WindowID, m bool) error {
	return s.add("minimize %s %v", id, m)
}
func (s *sink) GeometryChanged(id model.WindowID, g model.Geometry) error {
	return s.add("move %s %dx%d", id, g.Width, g.Height)
}
func (s *sink) TitleChanged(id model.WindowID, t string) error { return s.add("title %s %s", id, t) }
func (s *sink) Tick(time.Duration) {
	s.mu.Lock()
	s.ticks++
	s.mu.Unlock()
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(s.Windows) != 2 {
		t.Fatalf("windows = %d", len(s.Windows))
	}
	w := s.Windows[1]
	if w.Bounds != (model.Geometry{X: 100, Y: 100, Width: 640, Height: 480}) || w.Class != "Notepad" {
		t.Errorf("window 1 = %+v", w)
	}
	if _, ok := s.Windows[42]; !ok {
		t.Error("hex id not decoded")
	}
	if s.Steps[0].Op != OpCreate || s.Steps[1].ID != 42 {
		t.Errorf("steps not stably sorted: %v", s.Steps[:2])
	}
	last := s.Steps[len(s.Steps)-1]
	if last.Op != OpDestroy || last.At != time.Second {
		t.Errorf("last step = %v", last)
	}
	if s.Duration() != time.Second {
		t.Errorf("Duration = %s", s.Duration())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown op":         "steps:\n  - {at: 0s, op: explode, id: 1}\n",
		"undeclared create":  "steps:\n  - {at: 0s, op: create, id: 9}\n",
		"bad move bounds":    "steps:\n  - {at: 0s, op: move, id: 1, bounds: nope}\n",
		"negative offset":    "steps:\n  - {at: -1s, op: destroy, id: 1}\n",
		"duplicate window":   "windows:\n  - {id: 1}\n  - {id: 1}\n",
		"bad window bounds":  "windows:\n  - {id: 1, bounds: \"1,2\"}\n",
		"malformed document": "steps: [",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSimulate_AppliesAtOffsets(t *testing.T) {
	s, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	clk := clock.Fake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	target := &sink{clk: clk, start: clk.Now()}

	if err := Simulate(target, clk, s, SimOptions{Frame: 100 * time.Millisecond, Tail: 200 * time.Millisecond}); err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	want := []string{
		"0s create 0x1 Notepad",
		"0s create 0x2a Zebar",
		"250ms focus 0x1 true",
		"300ms move 0x1 10x10",
		"400ms title 0x1 renamed",
		"500ms minimize 0x1 true",
		"600ms minimize 0x1 false",
		"700ms focus 0x1 false",
		"1s destroy 0x1",
	}
	if strings.Join(target.events, "\n") != strings.Join(want, "\n") {
		t.Errorf("events:\n%s\nwant:\n%s", strings.Join(target.events, "\n"), strings.Join(want, "\n"))
	}
	if target.ticks != 12 {
		t.Errorf("ticks = %d, want 12", target.ticks)
	}
}

func TestSimulate_RejectsZeroFrame(t *testing.T) {
	s := &Script{}
	if err := Simulate(&sink{}, clock.Fake(time.Time{}), s, SimOptions{}); err == nil {
		t.Error("expected error")
	}
}

func TestSource_Run(t *testing.T) {
	s, err := Parse([]byte("windows:\n  - {id: 1}\nsteps:\n  - {at: 0s, op: create, id: 1}\n  - {at: 1ms, op: focus, id: 1}\n"))
	if err != nil {
		t.Fatal(err)
	}
	target := &sink{}
	src := &Source{Script: s}
	if err := src.Run(context.Background(), target); err != nil {
		t.Fatal(err)
	}
	if len(target.events) != 2 || target.events[1] != "focus 0x1 true" {
		t.Errorf("events = %q", target.events)
	}
}

func TestSource_RunCancelled(t *testing.T) {
	s, err := Parse([]byte("windows:\n  - {id: 1}\nsteps:\n  - {at: 1h, op: create, id: 1}\n"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	target := &sink{}
	if err := (&Source{Script: s}).Run(ctx, target); err != nil {
		t.Fatal(err)
	}
	if len(target.events) != 0 {
		t.Errorf("events = %q", target.events)
	}
}

// Package script replays a timeline of window events from a YAML file. It
// drives the border engine without an OS window hook, for demos, the
// simulate command and tests.
//
// A script looks like:
//
//	windows:
//	  - {id: 1, class: Notepad, title: notes.txt, bounds: "100,100,640,480"}
//	steps:
//	  - {at: 0s, op: create, id: 1}
//	  - {at: 500ms, op: focus, id: 1}
//	  - {at: 1s, op: move, id: 1, bounds: "120,100,640,480"}
//	  - {at: 2s, op: destroy, id: 1}
package script

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mj1618/desktop-borders/internal/clock"
	"github.com/mj1618/desktop-borders/internal/model"
	"github.com/mj1618/desktop-borders/internal/platform"
	"gopkg.in/yaml.v3"
)

// Op is a scripted window event.
type Op string

const (
	OpCreate   Op = "create"
	OpDestroy  Op = "destroy"
	OpFocus    Op = "focus"
	OpBlur     Op = "blur"
	OpMinimize Op = "minimize"
	OpRestore  Op = "restore"
	OpMove     Op = "move"
	OpTitle    Op = "title"
)

// Window is a window declared up front and referenced by id from steps.
type Window struct {
	ID        model.WindowID `yaml:"id"`
	Class     string         `yaml:"class"`
	Title     string         `yaml:"title"`
	Bounds    string         `yaml:"bounds"`
	Focused   bool           `yaml:"focused"`
	Minimized bool           `yaml:"minimized"`
}

// Step is one event at an offset from the start of the script.
type Step struct {
	At     time.Duration  `yaml:"at"`
	Op     Op             `yaml:"op"`
	ID     model.WindowID `yaml:"id"`
	Title  string         `yaml:"title,omitempty"`
	Bounds string         `yaml:"bounds,omitempty"`
}

func (s Step) String() string {
	return fmt.Sprintf("%s %s %s", s.At, s.Op, s.ID)
}

// Script is a parsed timeline. Steps are ordered by At; steps with equal
// offsets keep file order.
type Script struct {
	Windows map[model.WindowID]model.Window
	Steps   []Step
}

type file struct {
	Windows []Window `yaml:"windows"`
	Steps   []Step   `yaml:"steps"`
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and checks a script.
func Parse(data []byte) (*Script, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	s := &Script{Windows: make(map[model.WindowID]model.Window, len(f.Windows))}
	for i, w := range f.Windows {
		if _, dup := s.Windows[w.ID]; dup {
			return nil, fmt.Errorf("windows[%d]: duplicate id %s", i, w.ID)
		}
		win := model.Window{ID: w.ID, Class: w.Class, Title: w.Title, Focused: w.Focused, Minimized: w.Minimized}
		if w.Bounds != "" {
			g, err := model.ParseGeometry(w.Bounds)
			if err != nil {
				return nil, fmt.Errorf("windows[%d]: %w", i, err)
			}
			win.Bounds = g
		}
		s.Windows[w.ID] = win
	}

	for i := range f.Steps {
		st := &f.Steps[i]
		st.Op = Op(strings.ToLower(string(st.Op)))
		if st.At < 0 {
			return nil, fmt.Errorf("steps[%d]: negative offset %s", i, st.At)
		}
		switch st.Op {
		case OpCreate:
			if _, ok := s.Windows[st.ID]; !ok {
				return nil, fmt.Errorf("steps[%d]: create of undeclared window %s", i, st.ID)
			}
		case OpMove:
			if _, err := model.ParseGeometry(st.Bounds); err != nil {
				return nil, fmt.Errorf("steps[%d]: %w", i, err)
			}
		case OpDestroy, OpFocus, OpBlur, OpMinimize, OpRestore, OpTitle:
		default:
			return nil, fmt.Errorf("steps[%d]: unknown op %q", i, st.Op)
		}
	}
	sort.SliceStable(f.Steps, func(i, j int) bool { return f.Steps[i].At < f.Steps[j].At })
	s.Steps = f.Steps
	return s, nil
}

// Duration is the offset of the last step.
func (s *Script) Duration() time.Duration {
	if len(s.Steps) == 0 {
		return 0
	}
	return s.Steps[len(s.Steps)-1].At
}

// Apply delivers one step to sink.
func (s *Script) Apply(sink platform.EventSink, st Step) error {
	switch st.Op {
	case OpCreate:
		return sink.WindowCreated(s.Windows[st.ID])
	case OpDestroy:
		return sink.WindowDestroyed(st.ID)
	case OpFocus:
		return sink.FocusChanged(st.ID, true)
	case OpBlur:
		return sink.FocusChanged(st.ID, false)
	case OpMinimize:
		return sink.MinimizationChanged(st.ID, true)
	case OpRestore:
		return sink.MinimizationChanged(st.ID, false)
	case OpMove:
		g, err := model.ParseGeometry(st.Bounds)
		if err != nil {
			return err
		}
		return sink.GeometryChanged(st.ID, g)
	case OpTitle:
		return sink.TitleChanged(st.ID, st.Title)
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
}

// Source replays a script in real (or injected) time. It implements
// platform.EventSource.
type Source struct {
	Script *Script
	Clock  clock.Clock
	// OnError receives sink errors; nil ignores them.
	OnError func(Step, error)
}

// Run delivers every step at its offset from the moment Run is called and
// returns when the script ends or ctx is done.
func (r *Source) Run(ctx context.Context, sink platform.EventSink) error {
	clk := r.Clock
	if clk == nil {
		clk = clock.Real()
	}
	start := clk.Now()
	for _, st := range r.Script.Steps {
		wait := st.At - clk.Now().Sub(start)
		if wait > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-clk.After(wait):
			}
		}
		if err := r.Script.Apply(sink, st); err != nil && r.OnError != nil {
			r.OnError(st, err)
		}
	}
	return nil
}

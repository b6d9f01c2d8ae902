// Package border implements the per-window border lifecycle: delays after
// creation and restore, focus-dependent colors and animations, and the frames
// handed to the compositor.
package border

// State is a border's lifecycle state.
type State int

const (
	Hidden State = iota
	PendingInitialize
	VisibleActive
	VisibleInactive
	PendingUnminimize
	Destroyed
)

var stateNames = map[State]string{
	Hidden:            "hidden",
	PendingInitialize: "pending-initialize",
	VisibleActive:     "visible-active",
	VisibleInactive:   "visible-inactive",
	PendingUnminimize: "pending-unminimize",
	Destroyed:         "destroyed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Visible reports whether a border is drawn in this state.
func (s State) Visible() bool {
	return s == VisibleActive || s == VisibleInactive
}

// Pending reports whether a delay is outstanding in this state.
func (s State) Pending() bool {
	return s == PendingInitialize || s == PendingUnminimize
}

func visibleFor(focused bool) State {
	if focused {
		return VisibleActive
	}
	return VisibleInactive
}

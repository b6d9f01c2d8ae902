package model

// ChangeType represents the kind of window change detected between snapshots.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// Field names a window attribute that differs between two snapshots.
type Field string

const (
	FieldTitle     Field = "title"
	FieldBounds    Field = "bounds"
	FieldFocused   Field = "focused"
	FieldMinimized Field = "minimized"
)

// WindowChange represents a single change between two snapshots.
type WindowChange struct {
	Type   ChangeType `json:"type"`
	ID     WindowID   `json:"id"`
	Window Window     `json:"window"`           // current state; previous state for removals
	Fields []Field    `json:"fields,omitempty"` // for changed: attributes that differ
}

// Has reports whether f is among the changed fields.
func (c WindowChange) Has(f Field) bool {
	for _, x := range c.Fields {
		if x == f {
			return true
		}
	}
	return false
}

// DiffWindows compares two window snapshots and returns the changes.
// Windows are matched by ID. Removals come last, in prev order; additions and
// changes follow curr order.
func DiffWindows(prev, curr []Window) []WindowChange {
	prevMap := make(map[WindowID]Window, len(prev))
	for _, w := range prev {
		prevMap[w.ID] = w
	}
	currMap := make(map[WindowID]struct{}, len(curr))
	for _, w := range curr {
		currMap[w.ID] = struct{}{}
	}

	var changes []WindowChange

	for _, w := range curr {
		prevWin, existed := prevMap[w.ID]
		if !existed {
			changes = append(changes, WindowChange{Type: ChangeAdded, ID: w.ID, Window: w})
			continue
		}
		if fields := diffFields(prevWin, w); len(fields) > 0 {
			changes = append(changes, WindowChange{Type: ChangeChanged, ID: w.ID, Window: w, Fields: fields})
		}
	}

	for _, w := range prev {
		if _, exists := currMap[w.ID]; !exists {
			changes = append(changes, WindowChange{Type: ChangeRemoved, ID: w.ID, Window: w})
		}
	}

	return changes
}

// diffFields compares two windows and returns the fields that changed.
// Class is part of the window identity and is never reported.
func diffFields(prev, curr Window) []Field {
	var fields []Field
	if prev.Title != curr.Title {
		fields = append(fields, FieldTitle)
	}
	if prev.Bounds != curr.Bounds {
		fields = append(fields, FieldBounds)
	}
	if prev.Focused != curr.Focused {
		fields = append(fields, FieldFocused)
	}
	if prev.Minimized != curr.Minimized {
		fields = append(fields, FieldMinimized)
	}
	return fields
}

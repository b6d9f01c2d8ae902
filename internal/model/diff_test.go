package model

import "testing"

func TestDiffWindows_NoChanges(t *testing.T) {
	windows := []Window{
		{ID: 1, Class: "Chrome_WidgetWin_1", Title: "Docs", Bounds: Geometry{10, 20, 800, 600}},
	}
	changes := DiffWindows(windows, windows)
	if len(changes) != 0 {
		t.Errorf("expected no changes, got %d", len(changes))
	}
}

func TestDiffWindows_Added(t *testing.T) {
	prev := []Window{{ID: 1, Title: "A"}}
	curr := []Window{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	changes := DiffWindows(prev, curr)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].Type != ChangeAdded {
		t.Errorf("expected added, got %s", changes[0].Type)
	}
	if changes[0].Window.Title != "B" {
		t.Errorf("expected B, got %s", changes[0].Window.Title)
	}
}

func TestDiffWindows_Removed(t *testing.T) {
	prev := []Window{{ID: 1, Title: "A"}, {ID: 2, Title: "Loading..."}}
	curr := []Window{{ID: 1, Title: "A"}}
	changes := DiffWindows(prev, curr)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].Type != ChangeRemoved {
		t.Errorf("expected removed, got %s", changes[0].Type)
	}
	if changes[0].ID != 2 {
		t.Errorf("expected ID 2, got %d", changes[0].ID)
	}
}

func TestDiffWindows_Changed(t *testing.T) {
	prev := []Window{{ID: 1, Title: "Search", Bounds: Geometry{0, 0, 100, 100}}}
	curr := []Window{{ID: 1, Title: "Search", Bounds: Geometry{0, 0, 200, 100}, Focused: true}}
	changes := DiffWindows(prev, curr)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Type != ChangeChanged {
		t.Errorf("expected changed, got %s", c.Type)
	}
	if !c.Has(FieldBounds) || !c.Has(FieldFocused) {
		t.Errorf("expected bounds and focused diffs, got %v", c.Fields)
	}
	if c.Has(FieldTitle) || c.Has(FieldMinimized) {
		t.Errorf("unexpected fields %v", c.Fields)
	}
}

func TestDiffWindows_ClassIgnored(t *testing.T) {
	prev := []Window{{ID: 1, Class: "A"}}
	curr := []Window{{ID: 1, Class: "B"}}
	if changes := DiffWindows(prev, curr); len(changes) != 0 {
		t.Errorf("expected class change to be ignored, got %v", changes)
	}
}

func TestDiffWindows_Empty(t *testing.T) {
	changes := DiffWindows(nil, nil)
	if len(changes) != 0 {
		t.Errorf("expected no changes for nil inputs, got %d", len(changes))
	}
}

func TestDiffWindows_RemovalsLast(t *testing.T) {
	prev := []Window{{ID: 1}, {ID: 2}}
	curr := []Window{{ID: 3}}
	changes := DiffWindows(prev, curr)
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}
	if changes[0].Type != ChangeAdded || changes[1].Type != ChangeRemoved || changes[2].Type != ChangeRemoved {
		t.Errorf("unexpected order: %v", changes)
	}
}

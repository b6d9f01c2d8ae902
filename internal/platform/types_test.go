package platform

import (
	"testing"

	"github.com/mj1618/desktop-borders/internal/model"
)

func TestListOptions_Match(t *testing.T) {
	w := model.Window{ID: 1, Class: "Firefox", Title: "Mozilla Firefox"}
	min := w
	min.Minimized = true

	tests := []struct {
		name string
		opts ListOptions
		win  model.Window
		want bool
	}{
		{"no filter", ListOptions{}, w, true},
		{"class exact", ListOptions{Class: "Firefox"}, w, true},
		{"class mismatch", ListOptions{Class: "firefox"}, w, false},
		{"title substring any case", ListOptions{Title: "mozilla"}, w, true},
		{"title miss", ListOptions{Title: "chrome"}, w, false},
		{"minimized excluded", ListOptions{}, min, false},
		{"minimized included", ListOptions{IncludeMinimized: true}, min, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Match(tt.win); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterWindows_KeepsOrder(t *testing.T) {
	ws := []model.Window{
		{ID: 3, Class: "A"},
		{ID: 1, Class: "B"},
		{ID: 2, Class: "A"},
	}
	got := FilterWindows(ws, ListOptions{Class: "A"})
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestStaticAccent(t *testing.T) {
	if hex, ok := StaticAccent("#123456").CurrentAccentColor(); !ok || hex != "#123456" {
		t.Errorf("got %q, %v", hex, ok)
	}
	if _, ok := StaticAccent("").CurrentAccentColor(); ok {
		t.Error("empty accent should be unavailable")
	}
}

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mj1618/desktop-borders/internal/platform"
	"github.com/mj1618/desktop-borders/internal/render"
	"github.com/spf13/cobra"
)

// testCommand returns a command carrying the root's persistent flags.
func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().String("config", "", "")
	c.Flags().String("accent", "", "")
	if err := c.Flags().Parse(args); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level   string
		debug   bool
		warn    bool
		wantErr bool
	}{
		{"debug", true, true, false},
		{"info", false, true, false},
		{"WARN", false, true, false},
		{"error", false, false, false},
		{"loud", false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := newLogger(tt.level, &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			ctx := context.Background()
			if got := l.Enabled(ctx, slog.LevelDebug); got != tt.debug {
				t.Errorf("debug enabled = %v", got)
			}
			if got := l.Enabled(ctx, slog.LevelWarn); got != tt.warn {
				t.Errorf("warn enabled = %v", got)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	if err := os.WriteFile(good, []byte("[global]\nborder_width = -2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, diags, err := loadConfig(testCommand(t, "--config", good))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Global.BorderWidth != 0 || len(diags) != 1 || diags[0].Path != "global.border_width" {
		t.Errorf("width = %d, diags = %v", cfg.Global.BorderWidth, diags)
	}

	if _, _, err := loadConfig(testCommand(t, "--config", filepath.Join(dir, "missing.yaml"))); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestAccentLookup(t *testing.T) {
	a, err := accentLookup(testCommand(t, "--accent", "#112233"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if hex, ok := a.CurrentAccentColor(); !ok || hex != "#112233" {
		t.Errorf("accent = %q, %v", hex, ok)
	}

	if _, err := accentLookup(testCommand(t, "--accent", "blue"), nil); err == nil {
		t.Error("expected error for invalid --accent")
	}

	p := &platform.Provider{Accent: platform.StaticAccent("#abcdef")}
	a, err = accentLookup(testCommand(t), p)
	if err != nil {
		t.Fatal(err)
	}
	if hex, _ := a.CurrentAccentColor(); hex != "#abcdef" {
		t.Errorf("platform accent = %q", hex)
	}

	if a, _ := accentLookup(testCommand(t), nil); a != nil {
		t.Errorf("accent = %v, want nil", a)
	}
}

func TestNewCompositor(t *testing.T) {
	tests := []struct {
		name     string
		provider *platform.Provider
		want     string
		wantErr  bool
	}{
		{"", nil, "*render.LogCompositor", false},
		{"", &platform.Provider{Compositor: render.NewCanvas()}, "*render.Canvas", false},
		{"log", &platform.Provider{Compositor: render.NewCanvas()}, "*render.LogCompositor", false},
		{"none", nil, "platform.NopCompositor", false},
		{"gpu", nil, "", true},
	}
	for _, tt := range tests {
		c, err := newCompositor(tt.name, tt.provider)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: err = %v", tt.name, err)
			continue
		}
		if err != nil {
			if !strings.Contains(err.Error(), tt.name) {
				t.Errorf("error %q does not name %q", err, tt.name)
			}
			continue
		}
		if got := fmt.Sprintf("%T", c); got != tt.want {
			t.Errorf("%q: compositor = %s, want %s", tt.name, got, tt.want)
		}
	}
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mj1618/desktop-borders/internal/color"
	"github.com/mj1618/desktop-borders/internal/config"
	"github.com/mj1618/desktop-borders/internal/platform"
	"github.com/spf13/cobra"
)

// defaultConfigPath is where the configuration lives when --config is not
// given.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "desktop-borders", "config.yaml")
}

// configPath returns the --config value, or the default path and false when
// the flag was not set.
func configPath(cmd *cobra.Command) (string, bool) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return path, true
	}
	return defaultConfigPath(), false
}

// loadConfig reads and validates the configuration. A missing default file
// yields the built-in defaults; a missing explicit file is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, []config.Diagnostic, error) {
	path, explicit := configPath(cmd)
	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			logger.Info("no configuration file, using defaults", "path", path)
			cfg = config.Default()
		} else {
			return nil, nil, err
		}
	}
	return cfg, cfg.Validate(), nil
}

// logDiagnostics reports configuration problems at Warn.
func logDiagnostics(diags []config.Diagnostic) {
	for _, d := range diags {
		logger.Warn("configuration problem", "path", d.Path, "problem", d.Message)
	}
}

// newLogger builds the text logger for --log-level.
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("unsupported log level: %s (use debug, info, warn, or error)", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

// accentLookup returns the accent color source: --accent when set, else the
// platform's. It returns nil when neither is available.
func accentLookup(cmd *cobra.Command, provider *platform.Provider) (color.AccentLookup, error) {
	if hex, _ := cmd.Flags().GetString("accent"); hex != "" {
		if _, err := color.ParseHex(hex); err != nil {
			return nil, fmt.Errorf("--accent: %w", err)
		}
		return platform.StaticAccent(hex), nil
	}
	if provider != nil && provider.Accent != nil {
		return provider.Accent, nil
	}
	return nil, nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mj1618/desktop-borders/internal/config"
	"github.com/mj1618/desktop-borders/internal/engine"
	"github.com/mj1618/desktop-borders/internal/output"
	"github.com/mj1618/desktop-borders/internal/platform"
	"github.com/mj1618/desktop-borders/internal/platform/script"
	"github.com/mj1618/desktop-borders/internal/render"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Track windows and draw their borders",
	Long: `Start the border engine. Window events come from the platform backend, or
from a scripted timeline with --script. Frames go to the platform compositor,
or to stdout with --compositor log.

This build ships no platform backend, so without --script the command reports
that there is no window backend. Scripted runs work everywhere.

Examples:
  desktop-borders run --watch
  desktop-borders run --script demo.yaml --compositor log --format json`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("script", "", "Replay window events from a timeline file instead of the platform")
	runCmd.Flags().String("compositor", "", "Frame output: log, none (default: the platform compositor, else log)")
	runCmd.Flags().Bool("watch", false, "Reload the configuration file when it changes")
	runCmd.Flags().Duration("poll", platform.DefaultPollInterval, "Window list interval on platforms without window events")
	runCmd.Flags().Duration("tail", time.Second, "With --script, keep running this long after the last step")
}

func runRun(cmd *cobra.Command, args []string) error {
	scriptPath, _ := cmd.Flags().GetString("script")
	compositorName, _ := cmd.Flags().GetString("compositor")
	watch, _ := cmd.Flags().GetBool("watch")
	poll, _ := cmd.Flags().GetDuration("poll")
	tail, _ := cmd.Flags().GetDuration("tail")

	cfg, diags, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logDiagnostics(diags)

	var (
		provider *platform.Provider
		source   platform.EventSource
	)
	if scriptPath != "" {
		s, err := script.Load(scriptPath)
		if err != nil {
			return err
		}
		source = &script.Source{
			Script: s,
			OnError: func(st script.Step, err error) {
				logger.Warn("script step rejected", "step", st.String(), "error", err)
			},
		}
	} else {
		provider, err = platform.NewProvider()
		if err != nil {
			return err
		}
		switch {
		case provider.Windows != nil:
			// Rebuild the poller with the requested interval.
			if _, polled := provider.Events.(*platform.Poller); polled {
				provider.Events = platform.NewPoller(provider.Windows, platform.PollerOptions{Interval: poll, Logger: logger})
			}
		case provider.Events == nil:
			return fmt.Errorf("window events not available on this platform")
		}
		source = provider.Events
	}

	compositor, err := newCompositor(compositorName, provider)
	if err != nil {
		return err
	}
	accent, err := accentLookup(cmd, provider)
	if err != nil {
		return err
	}

	eng := engine.New(cfg, engine.Options{
		Compositor: compositor,
		Accent:     accent,
		Logger:     logger,
	})
	defer eng.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 3)
	go func() { errs <- eng.Run(ctx) }()
	go func() {
		err := source.Run(ctx, eng)
		if err == nil && scriptPath != "" {
			select {
			case <-time.After(tail):
				cancel()
			case <-ctx.Done():
			}
		}
		errs <- err
	}()
	if watch {
		path, _ := configPath(cmd)
		go func() {
			errs <- config.Watch(ctx, path, config.DefaultDebounce, func(next *config.Config, err error) {
				if err != nil {
					logger.Error("configuration reload failed", "path", path, "error", err)
					return
				}
				logDiagnostics(next.Validate())
				eng.Reload(next)
				logger.Info("configuration reloaded", "path", path, "rules", len(next.Rules))
			})
		}()
	}

	logger.Info("border engine started", "fps", eng.FPS(), "rules", len(cfg.Rules))
	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		if err != nil {
			return err
		}
		// A finished script or watcher does not stop the engine.
		<-ctx.Done()
		return nil
	}
}

// newCompositor picks where frames go.
func newCompositor(name string, provider *platform.Provider) (platform.Compositor, error) {
	switch name {
	case "":
		if provider != nil && provider.Compositor != nil {
			return provider.Compositor, nil
		}
		return render.NewLogCompositor(os.Stdout, output.FormatJSON), nil
	case "log":
		return render.NewLogCompositor(os.Stdout, output.OutputFormat), nil
	case "none":
		return platform.NopCompositor{}, nil
	default:
		return nil, fmt.Errorf("unsupported compositor: %s (use log or none)", name)
	}
}

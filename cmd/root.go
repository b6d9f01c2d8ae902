package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mj1618/desktop-borders/internal/output"
	"github.com/mj1618/desktop-borders/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "desktop-borders",
	Short: "Draw colored borders around desktop windows",
	Long: `desktop-borders tracks top-level windows and draws a colored, optionally
animated border around each one. Borders follow focus, minimization and
window rules from a YAML or TOML configuration file.`,
	SilenceUsage: true,
}

// logger is configured from --log-level before any subcommand runs.
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("config", "", "Configuration file, .yaml or .toml (default: "+defaultConfigPath()+")")
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("accent", "", "Accent color used for 'accent' borders, as #RRGGBB (default: the system accent)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Use the root persistent flags directly to avoid conflicts with
		// subcommand local flags.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		if prettyFlag := cmd.Flags().Lookup("pretty"); prettyFlag != nil {
			if pretty, err := cmd.Flags().GetBool("pretty"); err == nil && pretty {
				output.PrettyOutput = true
			}
		}

		level, _ := rootCmd.PersistentFlags().GetString("log-level")
		l, err := newLogger(level, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(logger)
		return nil
	}
}

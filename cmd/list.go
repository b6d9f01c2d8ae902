package cmd

import (
	"fmt"

	"github.com/mj1618/desktop-borders/internal/model"
	"github.com/mj1618/desktop-borders/internal/output"
	"github.com/mj1618/desktop-borders/internal/platform"
	"github.com/mj1618/desktop-borders/internal/rules"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List windows and the border rule each one gets",
	Long: `List open top-level windows with their class, title and bounds, and whether a
border is drawn for them under the current configuration.

Listing needs a platform backend. This build ships none, so the command
reports that there is no window backend until one is registered.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("class", "", "Filter windows by exact class name")
	listCmd.Flags().String("title", "", "Filter windows by title substring")
	listCmd.Flags().Bool("minimized", false, "Include minimized windows")
	listCmd.Flags().Bool("pretty", false, "Pretty-print JSON output")
}

// listEntry is the output for one window.
type listEntry struct {
	model.Window `yaml:",inline"`
	Border       bool   `yaml:"border"         json:"border"`
	Rule         string `yaml:"rule,omitempty" json:"rule,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.Windows == nil {
		return fmt.Errorf("window listing not available on this platform")
	}

	class, _ := cmd.Flags().GetString("class")
	title, _ := cmd.Flags().GetString("title")
	minimized, _ := cmd.Flags().GetBool("minimized")

	cfg, diags, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logDiagnostics(diags)

	opts := platform.ListOptions{Class: class, Title: title, IncludeMinimized: minimized}
	windows, err := provider.Windows.ListWindows(opts)
	if err != nil {
		return err
	}
	return output.Print(listEntries(platform.FilterWindows(windows, opts), rules.New(cfg)))
}

// listEntries resolves each window against m.
func listEntries(windows []model.Window, m *rules.Matcher) []listEntry {
	entries := make([]listEntry, 0, len(windows))
	for _, w := range windows {
		eff := m.Resolve(w.Class, w.Title)
		e := listEntry{Window: w, Border: eff.Enabled}
		if r, ok := m.Rule(eff.Rule); ok {
			e.Rule = r.String()
		}
		entries = append(entries, e)
	}
	return entries
}

package cmd

import (
	"github.com/mj1618/desktop-borders/internal/config"
	"github.com/mj1618/desktop-borders/internal/output"
	"github.com/mj1618/desktop-borders/internal/rules"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show the effective border settings for a window",
	Long: `Run the window rules against a class and title and print the merged
settings. The first matching rule wins; a window no rule matches gets the
global settings.`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().String("class", "", "Window class name")
	resolveCmd.Flags().String("title", "", "Window title")
	resolveCmd.Flags().Bool("pretty", false, "Pretty-print JSON output")
}

func runResolve(cmd *cobra.Command, args []string) error {
	class, _ := cmd.Flags().GetString("class")
	title, _ := cmd.Flags().GetString("title")

	cfg, diags, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logDiagnostics(diags)

	m := rules.New(cfg)
	eff := m.Resolve(class, title)
	var rule *config.Rule
	if r, ok := m.Rule(eff.Rule); ok {
		rule = &r
	}
	return output.Print(output.NewResolveResult(class, title, eff, rule))
}

package cmd

import (
	"errors"

	"github.com/mj1618/desktop-borders/internal/output"
	"github.com/mj1618/desktop-borders/internal/rules"
	"github.com/spf13/cobra"
)

// errInvalidConfig makes validate exit non-zero after printing its report.
var errInvalidConfig = errors.New("configuration has problems")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a configuration file",
	Long:  "Decode the configuration and report invalid colors, rules and regular expressions. Exits with status 1 when any problem is found.",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, diags, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res := output.NewValidateResult(cfg, diags, rules.New(cfg).Diagnostics())
	if err := output.Print(res); err != nil {
		return err
	}
	if !res.Valid {
		cmd.SilenceErrors = true
		return errInvalidConfig
	}
	return nil
}

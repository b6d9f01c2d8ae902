package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"run", "list", "resolve", "validate", "simulate", "serve"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "format", "log-level", "accent"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag %q not found", name)
		}
	}
}

func TestBackendCommands_DocumentMissingBackend(t *testing.T) {
	for _, c := range []*cobra.Command{listCmd, runCmd} {
		if !strings.Contains(c.Long, "no window backend") {
			t.Errorf("%s help does not mention the missing window backend", c.Name())
		}
	}
}

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mj1618/desktop-borders/internal/server"
	"github.com/mj1618/desktop-borders/internal/version"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing desktop-borders tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes the resolve,
validate and simulate commands as tools.

Supported transports:
  stdio             Standard I/O (default, for local MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  desktop-borders serve
  desktop-borders serve --transport streamable-http --port 8080
  desktop-borders serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 2000, "Configuration cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	accent, err := accentLookup(cmd, nil)
	if err != nil {
		return err
	}
	path, explicit := configPath(cmd)
	if _, err := os.Stat(path); !explicit && err != nil {
		// Tools fall back to the defaults when the default file is absent.
		path = ""
	}

	srv := server.New(server.Config{
		Transport:  transport,
		Port:       port,
		CacheTTL:   time.Duration(cacheTTLMs) * time.Millisecond,
		ConfigPath: path,
		Accent:     accent,
		Logger:     logger,
		Version:    version.Version,
	})
	if err := srv.Serve(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

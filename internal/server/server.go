// Package server exposes the border engine's offline tools over the Model
// Context Protocol.
package server

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/desktop-borders/internal/color"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
	// ConfigPath is the border configuration used when a tool call names none.
	ConfigPath string
	Accent     color.AccentLookup
	Logger     *slog.Logger
	Version    string
}

// Server wraps the MCP server with the configuration cache.
type Server struct {
	cfg    Config
	cache  *ConfigCache
	logger *slog.Logger
	mcp    *mcpserver.MCPServer
}

// New creates and configures an MCP server with every desktop-borders tool.
func New(cfg Config) *Server {
	s := &Server{
		cfg:    cfg,
		cache:  NewConfigCache(cfg.CacheTTL),
		logger: cfg.Logger,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	s.mcp = mcpserver.NewMCPServer(
		"desktop-borders",
		version,
		mcpserver.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve() error {
	switch s.cfg.Transport {
	case "", "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		s.logger.Info("mcp server listening", "port", s.cfg.Port)
		return httpServer.Start(fmt.Sprintf(":%d", s.cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Transport)
	}
}

func (s *Server) registerTools() {
	// resolve
	s.mcp.AddTool(
		mcp.NewTool("resolve",
			mcp.WithDescription("Resolve the effective border configuration for a window by class and title. Reports the winning rule and whether a border is drawn."),
			mcp.WithString("class", mcp.Description("Window class name")),
			mcp.WithString("title", mcp.Description("Window title")),
			mcp.WithString("config", mcp.Description("Configuration file path (default: the server's --config)")),
		),
		s.handleResolve,
	)

	// validate
	s.mcp.AddTool(
		mcp.NewTool("validate",
			mcp.WithDescription("Validate a border configuration. Reports invalid colors, rules and regular expressions."),
			mcp.WithString("config", mcp.Description("Configuration file path (default: the server's --config)")),
			mcp.WithString("source", mcp.Description("Inline configuration text; takes precedence over config")),
			mcp.WithString("syntax", mcp.Description("Syntax of source: yaml, toml (default: yaml)")),
		),
		s.handleValidate,
	)

	// simulate
	s.mcp.AddTool(
		mcp.NewTool("simulate",
			mcp.WithDescription("Replay a YAML timeline of window events (create, destroy, focus, blur, minimize, restore, move, title) on a simulated clock and report each window's final border state."),
			mcp.WithString("script", mcp.Description("Timeline YAML with windows and steps"), mcp.Required()),
			mcp.WithString("config", mcp.Description("Configuration file path (default: the server's --config)")),
			mcp.WithNumber("tail", mcp.Description("Milliseconds to keep running after the last step (default: 500)")),
			mcp.WithBoolean("image", mcp.Description("Attach a PNG of the final borders")),
			mcp.WithNumber("width", mcp.Description("Image width in pixels (default: 1280)")),
			mcp.WithNumber("height", mcp.Description("Image height in pixels (default: 800)")),
		),
		s.handleSimulate,
	)
}

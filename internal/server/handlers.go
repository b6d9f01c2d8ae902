package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/desktop-borders/internal/config"
	"github.com/mj1618/desktop-borders/internal/output"
	"github.com/mj1618/desktop-borders/internal/platform/script"
	"github.com/mj1618/desktop-borders/internal/rules"
	"github.com/mj1618/desktop-borders/internal/sim"
	"gopkg.in/yaml.v3"
)

// resultToText serializes a tool result to YAML for the MCP response.
func resultToText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func boolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

func (s *Server) loadConfig(params map[string]interface{}) (*config.Config, []config.Diagnostic, error) {
	return s.cache.Load(stringParam(params, "config", s.cfg.ConfigPath))
}

func (s *Server) handleResolve(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	class := stringParam(params, "class", "")
	title := stringParam(params, "title", "")

	cfg, _, err := s.loadConfig(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m := rules.New(cfg)
	eff := m.Resolve(class, title)
	var rule *config.Rule
	if r, ok := m.Rule(eff.Rule); ok {
		rule = &r
	}
	return mcp.NewToolResultText(resultToText(output.NewResolveResult(class, title, eff, rule))), nil
}

func (s *Server) handleValidate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	var (
		cfg   *config.Config
		diags []config.Diagnostic
		err   error
	)
	if src := stringParam(params, "source", ""); src != "" {
		syntax := config.Format(stringParam(params, "syntax", string(config.FormatYAML)))
		if syntax != config.FormatYAML && syntax != config.FormatTOML {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported syntax: %s (use yaml or toml)", syntax)), nil
		}
		cfg, err = config.Parse([]byte(src), syntax)
		if err == nil {
			diags = cfg.Validate()
		}
	} else {
		cfg, diags, err = s.loadConfig(params)
	}
	if err != nil {
		return mcp.NewToolResultError(resultToText(output.ValidateResult{Diagnostics: []string{err.Error()}})), nil
	}

	res := output.NewValidateResult(cfg, diags, rules.New(cfg).Diagnostics())
	if !res.Valid {
		return mcp.NewToolResultError(resultToText(res)), nil
	}
	return mcp.NewToolResultText(resultToText(res)), nil
}

func (s *Server) handleSimulate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	src := stringParam(params, "script", "")
	if src == "" {
		return mcp.NewToolResultError("script is required"), nil
	}
	tail := time.Duration(intParam(params, "tail", 500)) * time.Millisecond
	withImage := boolParam(params, "image", false)
	width := intParam(params, "width", 1280)
	height := intParam(params, "height", 800)

	sc, err := script.Parse([]byte(src))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg, _, err := s.loadConfig(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := sim.Run(cfg, sc, sim.Options{
		Tail:   tail,
		Accent: s.cfg.Accent,
		Logger: s.logger,
		Labels: true,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := resultToText(res.SimulateResult)
	if !withImage {
		return mcp.NewToolResultText(text), nil
	}

	var buf bytes.Buffer
	if err := res.Canvas.WritePNG(&buf, width, height); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				MIMEType: "image/png",
			},
		},
	}, nil
}

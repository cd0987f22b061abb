// Package server exposes the autotap engine as MCP tools.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/autotap/internal/config"
	"github.com/mj1618/autotap/internal/engine"
	"github.com/mj1618/autotap/internal/platform"
	"github.com/mj1618/autotap/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
}

// Server wraps the MCP server with the device provider and engine control.
type Server struct {
	provider *platform.Provider
	ctrl     *engine.Controller
	defaults config.Config
	logger   *slog.Logger

	// runCtx outlives individual tool calls and bounds engine runs.
	runCtx context.Context

	// providerMu serializes one-shot device access from the scan tool.
	providerMu sync.Mutex
	mcp        *mcpserver.MCPServer
}

// New creates an MCP server. defaults supplies every start argument the
// caller leaves out.
func New(provider *platform.Provider, ctrl *engine.Controller, defaults config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		provider: provider,
		ctrl:     ctrl,
		defaults: defaults,
		logger:   logger,
		runCtx:   context.Background(),
	}
	s.mcp = mcpserver.NewMCPServer("autotap", version.Version)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport. Engine runs
// started through the tools end when ctx is cancelled.
func (s *Server) Serve(ctx context.Context, cfg Config) error {
	s.runCtx = ctx
	switch cfg.Transport {
	case "stdio", "":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		errc := make(chan error, 1)
		go func() { errc <- httpServer.Start(fmt.Sprintf(":%d", cfg.Port)) }()
		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			return httpServer.Shutdown(context.Background())
		}
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	// start
	s.mcp.AddTool(
		mcp.NewTool("start",
			mcp.WithDescription("Start watching the target app and activate the element whose label matches the target. Omitted arguments fall back to the server's configuration."),
			mcp.WithString("app", mcp.Description("Target application package (e.g. 'com.fleetlery.driver')")),
			mcp.WithString("label", mcp.Description("Target label to match (e.g. 'Start tour')")),
			mcp.WithString("mode", mcp.Description("Firing mode: once, per-entry, continuous")),
			mcp.WithNumber("interval", mcp.Description("Poll interval in ms (default: 100)")),
			mcp.WithString("exclude", mcp.Description("Comma-separated label keywords that disqualify a candidate")),
		),
		s.handleStart,
	)

	// stop
	s.mcp.AddTool(
		mcp.NewTool("stop",
			mcp.WithDescription("Stop the running engine. The tick in progress completes; nothing further is activated."),
		),
		s.handleStop,
	)

	// status
	s.mcp.AddTool(
		mcp.NewTool("status",
			mcp.WithDescription("Report whether the engine is running, its run id, configuration, tick and activation counts, and the last tick outcome"),
		),
		s.handleStatus,
	)

	// scan
	s.mcp.AddTool(
		mcp.NewTool("scan",
			mcp.WithDescription("Scan the current foreground screen once and list interactive candidates with resolved labels. With a label, show which candidate would be activated. Never activates anything."),
			mcp.WithString("label", mcp.Description("Target label to preview matching for")),
			mcp.WithString("text", mcp.Description("Only list candidates whose text, description or tooltip contains this")),
			mcp.WithBoolean("annotate", mcp.Description("Also return a screenshot with candidate boxes drawn")),
			mcp.WithNumber("scale", mcp.Description("Annotated screenshot scale 0.1-1.0 (default: 0.5)")),
		),
		s.handleScan,
	)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mj1618/autotap/internal/engine"
	"github.com/mj1618/autotap/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing autotap tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes the engine as
tools: start, stop, status and scan. Arguments left out of start fall back
to the config file.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  autotap serve
  autotap serve --config autotap.yaml --transport streamable-http --port 8080`,
	RunE: runServe,
}

var serveFlagKeys = map[string]string{
	"log-file":  "log.file",
	"log-level": "log.level",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().String("log-file", "autotap_log.txt", "Event log file (empty to disable)")
	serveCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")

	cfg, err := loadConfig(cmd, serveFlagKeys)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := engine.NewController(provider, logger)
	defer ctrl.Stop()

	srv := server.New(provider, ctrl, cfg, logger)
	if err := srv.Serve(ctx, server.Config{Transport: transport, Port: port}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

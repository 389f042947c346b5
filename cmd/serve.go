package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the script generator",
	Long: `Start a Model Context Protocol (MCP) server that exposes the recorder as
tools. Agents can turn captured event logs into pywinauto code, test event
patterns, and resolve element access names without shell overhead.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  desktop-recorder serve
  desktop-recorder serve --transport streamable-http --port 8080
  desktop-recorder serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 5000, "Control-tree file cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	cfg := MCPConfig{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
	}

	srv := newMCPServer(cfg)
	appLogger.Info("mcp server starting", "transport", cfg.Transport, "port", cfg.Port)
	if err := srv.serve(cfg); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

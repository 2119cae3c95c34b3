package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/airdesk/internal/cli"
	"github.com/aretw0/airdesk/internal/metrics"
	"github.com/aretw0/airdesk/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the assistant to AI agents as MCP tools: "chat" (session_id,
message) and "get_booking" (booking_id), plus the airdesk://catalog resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP on --addr.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		baseURL, _ := cmd.Flags().GetString("base-url")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		m := metrics.New()
		engine, closeFn := openEngine(sigCtx, m)
		defer closeEngine(closeFn)

		srv := mcp.NewServer(engine,
			mcp.WithLedger(engine.Ledger()),
			mcp.WithCatalog(engine.Catalog()),
			mcp.WithMetrics(m),
			mcp.WithLogger(logger),
		)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting airdesk MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			if baseURL == "" {
				baseURL = "http://localhost" + cfg.Addr
			}
			if err := srv.ServeSSE(sigCtx, cfg.Addr, baseURL); err != nil {
				logger.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
			logger.Info("MCP server stopped gracefully")
		default:
			fmt.Fprintf(os.Stderr, "Unknown transport: %s. Supported: stdio, sse\n", transport)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("base-url", "", "Public base URL announced by the SSE transport (default http://localhost<addr>)")
}

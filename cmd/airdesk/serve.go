package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/airdesk/internal/cli"
	"github.com/aretw0/airdesk/internal/metrics"
	httpAdapter "github.com/aretw0/airdesk/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat server",
	Long: `Starts the HTTP server exposing POST /chat, the OpenAPI document,
health and info endpoints, a per-session event stream and Prometheus metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		m := metrics.New()
		engine, closeFn := openEngine(sigCtx, m)
		defer closeEngine(closeFn)

		handler, err := httpAdapter.NewHandler(engine,
			httpAdapter.WithCatalog(engine.Catalog()),
			httpAdapter.WithLedger(engine.Ledger()),
			httpAdapter.WithMetrics(m),
			httpAdapter.WithLogger(logger),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building HTTP handler: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting airdesk server", "addr", srv.Addr,
				"session_backend", cfg.Session.Backend, "ledger_backend", cfg.Ledger.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Server error", "error", err)
				os.Exit(1)
			}

		case <-sigCtx.Done():
			logger.Info("Start shutdown", "signal", fmt.Sprint(sigCtx.Signal()))

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "error", err)
				}
			}
			logger.Info("airdesk server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

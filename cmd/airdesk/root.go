package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/airdesk"
	"github.com/aretw0/airdesk/internal/cli"
	"github.com/aretw0/airdesk/internal/config"
	"github.com/aretw0/airdesk/internal/logging"
	"github.com/aretw0/airdesk/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	v       = config.New()
	cfg     *config.Config
	logger  = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "airdesk",
	Short: "Airdesk is a conversational assistant for airline customer service",
	Long: `Airdesk books flights, cancels and looks up bookings, and answers airline
policy questions through a small dialogue state machine.

Settings come from flags, AIRDESK_* environment variables (AIRDESK_REDIS_ADDR,
AIRDESK_SESSION_ENCRYPTION_KEY...) and an optional YAML file given with --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.BindFlags(v, cmd.Root().PersistentFlags()); err != nil {
			return err
		}
		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = logging.NewWith(os.Stderr, logging.Format(cfg.LogFormat), level)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file")
	flags.String("addr", ":8080", "Listen address for serve and mcp --transport sse")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.String("catalog", "", "YAML file replacing the built-in cities and policies")
	flags.String("session-backend", config.BackendMemory, "Session store: memory or redis")
	flags.Duration("session-ttl", v.GetDuration("session.ttl"), "Idle time before a redis session expires (0 = never)")
	flags.String("ledger-backend", config.BackendMemory, "Booking ledger: memory, redis or mysql")
	flags.String("redis-addr", "localhost:6379", "Redis address")
	flags.Int("redis-db", 0, "Redis database number")
	flags.String("redis-prefix", "airdesk:", "Prefix for every redis key")
	flags.String("mysql-dsn", "", "MySQL DSN for the mysql ledger, e.g. user:pass@tcp(host:3306)/airdesk")
}

// openEngine builds the engine for a command, exiting on failure.
// m may be nil.
func openEngine(ctx context.Context, m *metrics.Metrics) (*airdesk.Engine, cli.Closer) {
	engine, closeFn, err := cli.BuildEngine(ctx, cfg, logger, m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing airdesk: %v\n", err)
		os.Exit(1)
	}
	return engine, closeFn
}

// closeEngine releases backend connections, logging failures.
func closeEngine(closeFn cli.Closer) {
	if err := closeFn(); err != nil {
		logger.Warn("failed to close backends", "error", err)
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/airdesk"
	"github.com/aretw0/airdesk/internal/config"
	"github.com/aretw0/airdesk/internal/metrics"
	"github.com/aretw0/airdesk/pkg/adapters/memory"
	"github.com/aretw0/airdesk/pkg/adapters/mysql"
	"github.com/aretw0/airdesk/pkg/adapters/redis"
	"github.com/aretw0/airdesk/pkg/catalog"
	"github.com/aretw0/airdesk/pkg/persistence/middleware"
	"github.com/aretw0/airdesk/pkg/ports"
	goredis "github.com/redis/go-redis/v9"
)

// Closer releases the connections opened by BuildEngine.
type Closer func() error

// BuildEngine wires an engine from configuration: catalog, session store
// (optionally encrypted), ledger, cross-process lock and hooks.
// m may be nil.
func BuildEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*airdesk.Engine, Closer, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*airdesk.Engine, Closer, error) {
		_ = closeAll()
		return nil, nil, err
	}

	// 1. Catalog
	cat := catalog.Default()
	if cfg.Catalog != "" {
		loaded, err := catalog.Load(cfg.Catalog)
		if err != nil {
			return fail(err)
		}
		cat = loaded
	}

	engineOpts := []airdesk.Option{
		airdesk.WithCatalog(cat),
		airdesk.WithLogger(logger),
	}

	// 2. Redis, shared by every component that needs it
	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = redis.DefaultPrefix
	}
	redisOpts := []redis.Option{redis.WithPrefix(prefix)}
	var client *goredis.Client
	if cfg.UsesRedis() {
		client = redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		closers = append(closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return fail(fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err))
		}
		logger.Info("connected to redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	}

	// 3. Session store
	var store ports.SessionStore
	switch cfg.Session.Backend {
	case config.BackendRedis:
		store = redis.NewStore(client, append(redisOpts, redis.WithTTL(cfg.Session.TTL))...)
		engineOpts = append(engineOpts, airdesk.WithLocker(redis.NewLocker(client, prefix)))
	default:
		store = memory.NewStore()
	}
	key, err := cfg.EncryptionKey()
	if err != nil {
		return fail(err)
	}
	if key != nil {
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
		logger.Info("session encryption enabled")
	}
	engineOpts = append(engineOpts, airdesk.WithSessionStore(store))

	// 4. Ledger
	var ledger ports.Ledger
	switch cfg.Ledger.Backend {
	case config.BackendRedis:
		ledger = redis.NewLedger(client, redisOpts...)
	case config.BackendMySQL:
		db, err := mysql.Open(ctx, cfg.MySQL.DSN)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, db.Close)
		sqlLedger := mysql.NewLedger(db)
		if err := sqlLedger.Migrate(ctx); err != nil {
			return fail(err)
		}
		ledger = sqlLedger
	default:
		ledger = memory.NewLedger()
	}
	engineOpts = append(engineOpts, airdesk.WithLedger(ledger))

	// 5. Hooks
	hooks := createDebugHooks(logger)
	if m != nil {
		hooks = hooks.Merge(m.Hooks())
	}
	engineOpts = append(engineOpts, airdesk.WithLifecycleHooks(hooks))

	engine, err := airdesk.New(engineOpts...)
	if err != nil {
		return fail(fmt.Errorf("error initializing engine: %w", err))
	}

	logger.Debug("engine ready",
		"session_backend", cfg.Session.Backend,
		"ledger_backend", cfg.Ledger.Backend,
		"cities", len(cat.Cities),
		"policies", len(cat.Policies),
	)
	return engine, closeAll, nil
}

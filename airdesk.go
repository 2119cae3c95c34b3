package airdesk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/airdesk/internal/logging"
	"github.com/aretw0/airdesk/internal/runtime"
	"github.com/aretw0/airdesk/pkg/adapters/memory"
	"github.com/aretw0/airdesk/pkg/booking"
	"github.com/aretw0/airdesk/pkg/catalog"
	"github.com/aretw0/airdesk/pkg/domain"
	"github.com/aretw0/airdesk/pkg/ports"
	"github.com/aretw0/airdesk/pkg/runner"
	"github.com/aretw0/airdesk/pkg/session"
)

// ErrMissingSession is returned by Chat when no session ID is given.
var ErrMissingSession = errors.New("session id is required")

// Engine is the high-level entry point of the library.
// It wires the dialogue state machine to session and booking storage.
type Engine struct {
	runtime   *runtime.Engine
	sessions  *session.Manager
	catalog   *catalog.Catalog
	store     ports.SessionStore
	ledger    ports.Ledger
	locker    ports.DistributedLocker
	generator booking.Generator
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

var _ ports.Conversation = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog replaces the compiled-in city list and policy knowledge base.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithSessionStore sets where dialogue state is kept (default: memory).
func WithSessionStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLedger sets where bookings are kept (default: memory).
func WithLedger(ledger ports.Ledger) Option {
	return func(e *Engine) {
		e.ledger = ledger
	}
}

// WithLocker serializes turns across processes sharing a session store.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithGenerator replaces the random booking ID generator.
func WithGenerator(gen booking.Generator) Option {
	return func(e *Engine) {
		e.generator = gen
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine. Without options it runs entirely in memory
// with the compiled-in catalog.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.catalog == nil {
		eng.catalog = catalog.Default()
	} else if err := eng.catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.ledger == nil {
		eng.ledger = memory.NewLedger()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	if eng.generator != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithGenerator(eng.generator))
	}
	eng.runtime = runtime.NewEngine(eng.catalog, eng.ledger, runtimeOpts...)

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	return eng, nil
}

// Chat processes one message for the session and returns the reply.
// The session is created on first use. Input is sanitized first; oversized
// or invalid UTF-8 input is rejected with an error wrapping
// runner.ErrInputTooLarge or runner.ErrInvalidUTF8.
func (e *Engine) Chat(ctx context.Context, sessionID, message string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", ErrMissingSession
	}

	clean, err := runner.SanitizeInput(message)
	if err != nil {
		return "", err
	}

	var (
		reply   string
		effects *runtime.Effects
	)
	err = e.sessions.Turn(ctx, sessionID, func(ctx context.Context, state *domain.State) error {
		before := state.Snapshot()
		r, fx, err := e.runtime.Apply(ctx, state, clean)
		if err != nil {
			return err
		}
		reply, effects = r, fx
		if diff := domain.Diff(before, state); diff != nil {
			e.logger.Debug("session changed", "diff", diff)
		}
		return nil
	})
	if err != nil {
		// effects is only set when the ledger was written and the session
		// save failed afterwards.
		if rbErr := effects.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			e.logger.Error("failed to roll back ledger changes", "session_id", sessionID, "err", rbErr)
		}
		return "", fmt.Errorf("chat turn failed for session %s: %w", sessionID, err)
	}
	effects.Commit(ctx)
	return reply, nil
}

// Intent reports which dispatch rule would handle message for the session
// in its current stage, without changing anything.
func (e *Engine) Intent(ctx context.Context, sessionID, message string) (string, error) {
	stage := domain.StageNone
	state, err := e.sessions.Load(ctx, sessionID)
	switch {
	case err == nil:
		stage = state.Stage
	case !errors.Is(err, domain.ErrSessionNotFound):
		return "", err
	}
	return e.runtime.Intent(stage, message), nil
}

// Sessions returns the session manager, for operator tooling.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Ledger returns the booking ledger.
func (e *Engine) Ledger() ports.Ledger {
	return e.ledger
}

// Catalog returns the reference data in use.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

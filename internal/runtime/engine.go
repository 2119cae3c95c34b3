// Package runtime implements the dialogue state machine: one message plus
// the current session state yields a response and the next state.
package runtime

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/airdesk/internal/logging"
	"github.com/aretw0/airdesk/pkg/booking"
	"github.com/aretw0/airdesk/pkg/catalog"
	"github.com/aretw0/airdesk/pkg/domain"
	"github.com/aretw0/airdesk/pkg/match"
	"github.com/aretw0/airdesk/pkg/ports"
)

// Engine is the dialogue state machine.
// It holds no per-session data and is safe for concurrent use;
// callers serialize turns of the same session.
type Engine struct {
	cities   *match.CityValidator
	policies *match.PolicyLookup
	ledger   ports.Ledger
	ids      booking.Generator
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the logger used for turn diagnostics.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithGenerator replaces the random booking ID generator.
func WithGenerator(gen booking.Generator) EngineOption {
	return func(e *Engine) {
		e.ids = gen
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine over the given reference data and ledger.
func NewEngine(cat *catalog.Catalog, ledger ports.Ledger, opts ...EngineOption) *Engine {
	e := &Engine{
		cities:   match.NewCityValidator(cat.Cities),
		policies: match.NewPolicyLookup(cat.Policies, cat.Fallback),
		ledger:   ledger,
		ids:      booking.RandomGenerator{},
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// turn carries one message through the dispatch table.
type turn struct {
	state   *domain.State
	msg     string // trimmed
	lower   string // trimmed and lower-cased
	effects *Effects
}

// Effects are the ledger changes made by one turn. The ledger is written
// before the session is saved, so a failed save must be followed by
// Rollback, and a successful one by Commit.
type Effects struct {
	undo   []func(context.Context) error
	notify []func(context.Context)
}

// Rollback reverts the ledger changes, newest first.
func (f *Effects) Rollback(ctx context.Context) error {
	if f == nil {
		return nil
	}
	var errs []error
	for i := len(f.undo) - 1; i >= 0; i-- {
		if err := f.undo[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	f.undo, f.notify = nil, nil
	return errors.Join(errs...)
}

// Commit fires the booking hooks of the turn.
func (f *Effects) Commit(ctx context.Context) {
	if f == nil {
		return
	}
	for _, fn := range f.notify {
		fn(ctx)
	}
	f.undo, f.notify = nil, nil
}

// Respond processes msg against state and commits its effects at once.
// Callers that persist state afterwards should use Apply.
func (e *Engine) Respond(ctx context.Context, state *domain.State, msg string) (string, error) {
	reply, effects, err := e.Apply(ctx, state, msg)
	if err != nil {
		return "", err
	}
	effects.Commit(ctx)
	return reply, nil
}

// Apply processes msg against state, mutating state in place, and returns
// the reply with the ledger effects of the turn. Conversational failures
// (unknown city, bad date, unknown booking) are replies, not errors; a
// non-nil error means the ledger failed, nothing was written and state must
// be discarded.
func (e *Engine) Apply(ctx context.Context, state *domain.State, msg string) (string, *Effects, error) {
	msg = strings.TrimSpace(msg)
	t := &turn{
		state:   state,
		msg:     msg,
		lower:   strings.ToLower(msg),
		effects: &Effects{},
	}

	from := state.Stage
	r := e.route(t)
	reply, err := r.handle(e, ctx, t)
	if err != nil {
		e.logger.Error("turn failed",
			"session_id", state.SessionID,
			"stage", from.Label(),
			"intent", r.name,
			"err", err,
		)
		return "", nil, err
	}

	e.logger.Debug("turn",
		"session_id", state.SessionID,
		"from", from.Label(),
		"to", state.Stage.Label(),
		"intent", r.name,
	)
	if e.hooks.OnTurn != nil {
		e.hooks.OnTurn(ctx, &domain.TurnEvent{
			EventBase: domain.EventBase{
				Timestamp: e.now(),
				Type:      domain.EventTurn,
				SessionID: state.SessionID,
			},
			From:   from,
			To:     state.Stage,
			Intent: r.name,
		})
	}
	return reply, t.effects, nil
}

// Intent returns the name of the rule that would handle msg in stage,
// without running it.
func (e *Engine) Intent(stage domain.Stage, msg string) string {
	msg = strings.TrimSpace(msg)
	t := &turn{
		state: &domain.State{Stage: stage},
		msg:   msg,
		lower: strings.ToLower(msg),
	}
	return e.route(t).name
}

// Cities returns the validator used for city input.
func (e *Engine) Cities() *match.CityValidator {
	return e.cities
}

// Policies returns the policy lookup used for questions.
func (e *Engine) Policies() *match.PolicyLookup {
	return e.policies
}

func (e *Engine) emitBooking(ctx context.Context, typ domain.EventType, sessionID string, b domain.Booking) {
	hook := e.hooks.OnBookingCreated
	if typ == domain.EventBookingCanceled {
		hook = e.hooks.OnBookingCanceled
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.BookingEvent{
		EventBase: domain.EventBase{
			Timestamp: e.now(),
			Type:      typ,
			SessionID: sessionID,
		},
		Booking: b,
	})
}

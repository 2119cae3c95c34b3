package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/airdesk/internal/logging"
	"github.com/aretw0/airdesk/pkg/ports"
)

// DefaultSessionID is used when no session is configured.
const DefaultSessionID = "cli"

// exitCommands end the loop without being sent to the conversation.
var exitCommands = map[string]bool{"exit": true, "quit": true, ":q": true}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Input reads the next message. It returns io.EOF when the stream ends.
	Input(ctx context.Context) (string, error)

	// Output presents a reply.
	Output(ctx context.Context, reply string) error

	// Fail reports a per-message problem (e.g. rejected input) without
	// ending the loop.
	Fail(ctx context.Context, err error) error
}

// ContentRenderer is a function that transforms the reply before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Runner drives a conversation from an IOHandler until input ends.
type Runner struct {
	conversation ports.Conversation
	handler      IOHandler
	sessionID    string
	greeting     string
	logger       *slog.Logger
}

// Option configures the Runner.
type Option func(*Runner)

// WithHandler sets the I/O strategy (default: TextHandler on stdin/stdout).
func WithHandler(h IOHandler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithSessionID sets the session used for every message.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.sessionID = id
	}
}

// WithGreeting sends text through the handler before the first prompt.
func WithGreeting(text string) Option {
	return func(r *Runner) {
		r.greeting = text
	}
}

// WithLogger configures a logger for the Runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner for conv.
func NewRunner(conv ports.Conversation, opts ...Option) *Runner {
	r := &Runner{
		conversation: conv,
		sessionID:    DefaultSessionID,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.handler == nil {
		r.handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run executes the loop until the input ends, an exit command is read or
// ctx is canceled. End of input and exit commands return nil.
// Rejected input is reported through the handler and the loop continues;
// conversation failures end the loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.greeting != "" {
		if err := r.handler.Output(ctx, r.greeting); err != nil {
			return err
		}
	}

	for {
		msg, err := r.handler.Input(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if exitCommands[strings.ToLower(strings.TrimSpace(msg))] {
			return nil
		}

		reply, err := r.conversation.Chat(ctx, r.sessionID, msg)
		if errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) {
			r.logger.Warn("input rejected", "session_id", r.sessionID, "err", err)
			if err := r.handler.Fail(ctx, err); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("chat failed: %w", err)
		}

		if err := r.handler.Output(ctx, reply); err != nil {
			return err
		}
	}
}

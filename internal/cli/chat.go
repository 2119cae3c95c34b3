package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/airdesk"
	"github.com/aretw0/airdesk/internal/logging"
	"github.com/aretw0/airdesk/internal/presentation/tui"
	"github.com/aretw0/airdesk/pkg/domain"
	"github.com/aretw0/airdesk/pkg/runner"
)

// Greeting is shown when an interactive chat starts.
const Greeting = "Welcome to airdesk! How can I help you today?\n" +
	"- Booking a flight\n" +
	"- Cancelling a flight\n" +
	"- Checking flight status\n" +
	"- Airline policy questions"

// ChatOptions configures RunChat.
type ChatOptions struct {
	SessionID string
	// JSON switches to NDJSON requests and responses, for scripting.
	JSON bool
	// Pretty enables the banner and markdown rendering.
	Pretty bool
	Width  int

	In     io.Reader
	Out    io.Writer
	Logger *slog.Logger
}

// RunChat runs an interactive conversation against eng until input ends.
func RunChat(ctx context.Context, eng *airdesk.Engine, opts ChatOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.SessionID == "" {
		opts.SessionID = runner.DefaultSessionID
	}

	runnerOpts := []runner.Option{
		runner.WithSessionID(opts.SessionID),
		runner.WithLogger(opts.Logger),
	}

	if opts.JSON {
		runnerOpts = append(runnerOpts, runner.WithHandler(runner.NewJSONHandler(opts.In, opts.Out)))
	} else {
		var textOpts []runner.TextHandlerOption
		if opts.Pretty {
			tui.PrintBanner(opts.Out)
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer(opts.Width)))
		}
		runnerOpts = append(runnerOpts, runner.WithHandler(runner.NewTextHandler(opts.In, opts.Out, textOpts...)))

		resumed, err := logSessionStatus(ctx, eng, opts)
		if err != nil {
			return err
		}
		if !resumed {
			runnerOpts = append(runnerOpts, runner.WithGreeting(Greeting))
		}
	}

	err := runner.NewRunner(eng, runnerOpts...).Run(ctx)
	return handleExecutionError(err)
}

// logSessionStatus reports whether the session already existed and, if so,
// where the conversation stands.
func logSessionStatus(ctx context.Context, eng *airdesk.Engine, opts ChatOptions) (bool, error) {
	state, err := eng.Sessions().Load(ctx, opts.SessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		opts.Logger.Info("Session Created", "session_id", opts.SessionID)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	opts.Logger.Info("Session Resumed", "session_id", opts.SessionID, "stage", state.Stage.Label())
	if !state.Stage.IsIdle() {
		printSystemMessage(opts.Out, "Resuming session '%s' at %s.", opts.SessionID, state.Stage.Label())
	}
	return true, nil
}

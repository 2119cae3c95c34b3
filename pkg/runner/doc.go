/*
Package runner implements the interactive chat loop and input hygiene.

It is the bridge between a conversation (anything implementing
ports.Conversation, usually the airdesk Engine) and a line-oriented stream
such as a terminal or a pipe.

# Key Components

  - Runner: reads a message, asks the conversation for a reply, writes it.
  - IOHandler: decouples how messages are read and replies are written.
  - TextHandler: prompt-based I/O for interactive terminals.
  - JSONHandler: JSON-Lines I/O for scripts and other processes.
  - SanitizeInput: size limit, UTF-8 validation and control-character stripping.

# Usage

	r := runner.NewRunner(engine,
		runner.WithSessionID("user-1"),
		runner.WithHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner

package main

import (
	"fmt"
	"os"

	"github.com/aretw0/airdesk/internal/cli"
	"github.com/aretw0/airdesk/pkg/runner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant in the terminal",
	Long: `Starts an interactive conversation. Type "exit" to leave.
With --json, stdin and stdout carry one JSON object per line
({"message": "..."} in, {"response": "..."} out) for scripting.`,
	Run: func(cmd *cobra.Command, args []string) {
		sessionID, _ := cmd.Flags().GetString("session")
		jsonMode, _ := cmd.Flags().GetBool("json")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		engine, closeFn := openEngine(sigCtx, nil)
		defer closeEngine(closeFn)

		opts := cli.ChatOptions{
			SessionID: sessionID,
			JSON:      jsonMode,
			Logger:    logger,
		}
		if fd := int(os.Stdout.Fd()); !jsonMode && term.IsTerminal(fd) {
			opts.Pretty = true
			if width, _, err := term.GetSize(fd); err == nil {
				opts.Width = width
			}
		}

		if err := cli.RunChat(sigCtx, engine, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("session", "s", runner.DefaultSessionID, "Session ID to create or resume")
	chatCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
}

package main

import (
	"fmt"
	"os"

	"github.com/aretw0/airdesk/internal/presentation/graph"
	"github.com/aretw0/airdesk/internal/runtime"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dialogue state machine",
	Long: `Outputs a Mermaid diagram (graph TD) of the dialogue stages.
With --session, the stage that conversation is in is highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		sessionID, _ := cmd.Flags().GetString("session")

		var overlay *graph.Overlay
		if sessionID != "" {
			engine, closeFn := openEngine(cmd.Context(), nil)
			defer closeEngine(closeFn)

			state, err := engine.Sessions().Load(cmd.Context(), sessionID)
			if err != nil {
				fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
				os.Exit(1)
			}
			overlay = &graph.Overlay{Current: state.Stage}
		}

		fmt.Print(graph.GenerateMermaid(runtime.Transitions(), runtime.Exclusive, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the current stage of this session")
}

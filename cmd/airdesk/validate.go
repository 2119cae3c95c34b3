package main

import (
	"fmt"
	"os"

	"github.com/aretw0/airdesk/pkg/catalog"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog.yaml]",
	Short: "Check a catalog file for consistency",
	Long: `Parses a catalog file and reports empty city lists, duplicate cities,
policies without topic or answer, and a missing fallback answer.
Without an argument the --catalog flag (or the built-in catalog) is checked.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := runValidate(args)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog is valid! ✅ (%d cities, %d policies)\n", len(c.Cities), len(c.Policies))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(args []string) (*catalog.Catalog, error) {
	path := cfg.Catalog
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

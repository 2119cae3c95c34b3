package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/airdesk/pkg/ticket"
	"github.com/spf13/cobra"
)

var ticketOutput string

var bookingCmd = &cobra.Command{
	Use:     "bookings",
	Aliases: []string{"booking"},
	Short:   "Manage the booking ledger",
	Long: `List, inspect, and remove bookings in the configured ledger
(--ledger-backend redis or mysql for a shared one).`,
}

var bookingLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all bookings",
	Run: func(cmd *cobra.Command, args []string) {
		engine, closeFn := openEngine(cmd.Context(), nil)
		defer closeEngine(closeFn)

		bookings, err := engine.Ledger().List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing bookings: %v\n", err)
			os.Exit(1)
		}

		if len(bookings) == 0 {
			fmt.Println("No bookings found.")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tFROM\tTO\tFLIGHT\tDATE\tSTATUS")
		for _, b := range bookings {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.Origin, b.Destination, b.FlightNumber, b.Date, b.Status)
		}
		tw.Flush()
	},
}

var bookingInspectCmd = &cobra.Command{
	Use:   "inspect <booking-id>",
	Short: "Show one booking as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := strings.ToUpper(args[0])
		engine, closeFn := openEngine(cmd.Context(), nil)
		defer closeEngine(closeFn)

		b, err := engine.Ledger().Get(cmd.Context(), id)
		if err != nil {
			fmt.Printf("Error loading booking '%s': %v\n", id, err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling booking: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var bookingRmCmd = &cobra.Command{
	Use:   "rm <booking-id>...",
	Short: "Remove one or more bookings",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, closeFn := openEngine(cmd.Context(), nil)
		defer closeEngine(closeFn)
		hasError := false

		for _, arg := range args {
			id := strings.ToUpper(arg)
			if _, err := engine.Ledger().Remove(cmd.Context(), id); err != nil {
				fmt.Printf("Error removing '%s': %v\n", id, err)
				hasError = true
			} else {
				fmt.Printf("Removed booking '%s'\n", id)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

var bookingTicketCmd = &cobra.Command{
	Use:   "ticket <booking-id>",
	Short: "Write the PDF e-ticket of a booking",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := strings.ToUpper(args[0])
		engine, closeFn := openEngine(cmd.Context(), nil)
		defer closeEngine(closeFn)

		b, err := engine.Ledger().Get(cmd.Context(), id)
		if err != nil {
			fmt.Printf("Error loading booking '%s': %v\n", id, err)
			os.Exit(1)
		}

		data, err := ticket.Render(b)
		if err != nil {
			fmt.Printf("Error rendering ticket: %v\n", err)
			os.Exit(1)
		}

		out := ticketOutput
		if out == "" {
			out = ticket.Filename(b)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", out, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote e-ticket for '%s' to %s\n", id, out)
	},
}

func init() {
	rootCmd.AddCommand(bookingCmd)
	bookingCmd.AddCommand(bookingLsCmd)
	bookingCmd.AddCommand(bookingInspectCmd)
	bookingCmd.AddCommand(bookingRmCmd)
	bookingCmd.AddCommand(bookingTicketCmd)

	bookingTicketCmd.Flags().StringVarP(&ticketOutput, "output", "o", "", "Output file (default ETICKET_<id>.pdf)")
}

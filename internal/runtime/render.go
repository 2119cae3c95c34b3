package runtime

import (
	"fmt"

	"github.com/aretw0/airdesk/pkg/domain"
)

const (
	msgAskFrom         = "Sure! Please tell me your departure city."
	msgAskTo           = "Got it. Now tell me your destination city."
	msgAskFlightNumber = "Please provide your flight number."
	msgAskDate         = "Enter your flight date (YYYY-MM-DD)."
	msgUnknownCity     = "I couldn't find that city. Please enter a valid Indian city."
	msgBadDate         = "Please enter a valid date in YYYY-MM-DD format."
	msgAskCancelID     = "Please provide your booking ID to cancel the flight."
	msgInvalidCancelID = "Invalid booking ID. Please check and try again."
	msgAskStatusID     = "Please provide your booking ID to check the flight status."
	msgInvalidStatusID = "Invalid booking ID or flight not found."
	msgHelp            = "I can help you with:\n" +
		"- Booking a flight\n" +
		"- Cancelling a flight\n" +
		"- Checking flight status\n" +
		"- Airline policy questions"
)

func renderSuggestion(city string, role domain.CityRole) string {
	return fmt.Sprintf("Did you mean '%s' as your %s city? (yes/no)", city, role.Noun())
}

func renderReenter(role domain.CityRole) string {
	return fmt.Sprintf("Okay, please re-enter your correct %s city.", role)
}

func renderBooked(b domain.Booking) string {
	return fmt.Sprintf("Flight booked successfully!\n"+
		"Booking ID: %s\n"+
		"From: %s → To: %s\n"+
		"Flight: %s\n"+
		"Date: %s",
		b.ID, b.Origin, b.Destination, b.FlightNumber, b.Date)
}

func renderCanceled(b domain.Booking) string {
	return fmt.Sprintf("Flight %s from %s → %s on %s has been cancelled.",
		b.FlightNumber, b.Origin, b.Destination, b.Date)
}

func renderStatus(b domain.Booking) string {
	return fmt.Sprintf("Flight Status:\n"+
		"Booking ID: %s\n"+
		"From: %s → To: %s\n"+
		"Flight: %s\n"+
		"Date: %s\n"+
		"Status: %s",
		b.ID, b.Origin, b.Destination, b.FlightNumber, b.Date, b.Status)
}

package domain

import "time"

// DefaultStatus is assigned to every newly created booking.
const DefaultStatus = "On Time"

// DateLayout is the stored travel date format.
const DateLayout = "2006-01-02"

// dateInputLayout also accepts single-digit month and day ("2025-3-1").
const dateInputLayout = "2006-1-2"

// ParseDate parses a YYYY-MM-DD travel date, month and day padded or not,
// and returns it in DateLayout. The date must exist in the calendar.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(dateInputLayout, s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// Booking is an entry of the booking ledger.
type Booking struct {
	ID           string    `json:"booking_id"`
	Origin       string    `json:"from"`
	Destination  string    `json:"to"`
	FlightNumber string    `json:"flight_number"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

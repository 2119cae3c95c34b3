// Package ticket renders a booking as a printable PDF e-ticket.
package ticket

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/airdesk/pkg/domain"
	"github.com/phpdave11/gofpdf"
)

// ContentType is the MIME type of rendered tickets.
const ContentType = "application/pdf"

// Filename returns the suggested download name for the booking's ticket.
func Filename(b domain.Booking) string {
	return fmt.Sprintf("ETICKET_%s.pdf", safe(b.ID, "NA"))
}

// Render builds the e-ticket PDF for b. The document creation date is the
// booking time.
func Render(b domain.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+b.ID, false)
	pdf.SetCreator("airdesk", false)
	created := b.CreatedAt
	if created.IsZero() {
		created = time.Unix(0, 0)
	}
	pdf.SetCreationDate(created.UTC())

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking ID : %s", safe(b.ID, "-")),
		fmt.Sprintf("Route      : %s -> %s", safe(b.Origin, "-"), safe(b.Destination, "-")),
		fmt.Sprintf("Flight     : %s", safe(b.FlightNumber, "-")),
		fmt.Sprintf("Date       : %s", safe(b.Date, "-")),
		fmt.Sprintf("Status     : %s", safe(b.Status, domain.DefaultStatus)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please keep your booking ID. You can check the flight status or cancel by chatting with airdesk.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket %s: %w", b.ID, err)
	}
	return buf.Bytes(), nil
}

// safe trims v and replaces characters the core PDF fonts cannot show.
func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, v)
}

package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMarkdown(t *testing.T) {
	help := "I can help you with:\n- Booking a flight\n- Cancelling a flight"
	assert.Equal(t, "I can help you with:\n\n- Booking a flight\n- Cancelling a flight", toMarkdown(help))

	booked := "Flight booked successfully!\nBooking ID: AB12CD\nDate: 2025-03-01"
	assert.Equal(t, "Flight booked successfully!  \nBooking ID: AB12CD  \nDate: 2025-03-01", toMarkdown(booked))

	assert.Equal(t, "single", toMarkdown("single"))
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer(60)
	out, err := render("Booking ID: AB12CD")
	assert.NoError(t, err)
	assert.Contains(t, out, "AB12CD")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "exit")
}

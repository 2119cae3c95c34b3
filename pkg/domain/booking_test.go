package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	valid := map[string]string{
		"2025-03-01": "2025-03-01",
		"2025-3-1":   "2025-03-01",
		"2025-12-9":  "2025-12-09",
		"2024-02-29": "2024-02-29",
	}
	for in, want := range valid {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "tomorrow", "25-03-01", "2025-13-01", "2025-02-30", "01/03/2025", "2025-03-01T10:00"} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/airdesk/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := catalog.Default()

	require.Len(t, c.Cities, 15)
	assert.Equal(t, "Delhi", c.Cities[0])
	assert.Equal(t, "Bhopal", c.Cities[14])

	assert.Equal(t, []string{"baggage", "refund", "cancel", "change", "checkin", "meal"}, c.Topics())
	assert.Equal(t, "Each passenger is allowed one carry-on bag up to 7 kg and one checked bag up to 15 kg.", c.Policies[0].Answer)
	assert.Equal(t, "You can ask about baggage, refund, cancellation, or meals for more information.", c.Fallback)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	data := []byte(`
cities: [Lisbon, Porto]
policies:
  - topic: pets
    answer: Small pets travel in the cabin.
fallback: Ask about pets.
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lisbon", "Porto"}, c.Cities)
	assert.Equal(t, "pets", c.Policies[0].Topic)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := catalog.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"Malformed YAML", "cities: [", "decode"},
		{"No Cities", "policies: [{topic: a, answer: b}]\nfallback: x", "no cities"},
		{"Duplicate City", "cities: [Goa, goa]\npolicies: [{topic: a, answer: b}]\nfallback: x", "duplicate city"},
		{"No Policies", "cities: [Goa]\nfallback: x", "no policies"},
		{"Upper Case Topic", "cities: [Goa]\npolicies: [{topic: Meal, answer: b}]\nfallback: x", "lower case"},
		{"Empty Answer", "cities: [Goa]\npolicies: [{topic: meal, answer: ''}]\nfallback: x", "no answer"},
		{"No Fallback", "cities: [Goa]\npolicies: [{topic: meal, answer: b}]", "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

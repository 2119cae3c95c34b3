package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/airdesk/internal/config"
	"github.com/aretw0/airdesk/internal/logging"
	"github.com/aretw0/airdesk/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	return cfg
}

func TestBuildEngine_MemoryDefaults(t *testing.T) {
	cfg := loadConfig(t, nil)
	m := metrics.New()

	eng, closeFn, err := BuildEngine(context.Background(), cfg, logging.NewNop(), m)
	require.NoError(t, err)
	defer closeFn()

	reply, err := eng.Chat(context.Background(), "s1", "book")
	require.NoError(t, err)
	assert.Equal(t, "Sure! Please tell me your departure city.", reply)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("book")))
}

func TestBuildEngine_RedisWithEncryption(t *testing.T) {
	mr := miniredis.RunT(t)
	key := strings.Repeat("ab", 32)
	cfg := loadConfig(t, map[string]string{
		"AIRDESK_SESSION_BACKEND":        "redis",
		"AIRDESK_LEDGER_BACKEND":         "redis",
		"AIRDESK_REDIS_ADDR":             mr.Addr(),
		"AIRDESK_REDIS_PREFIX":           "test:",
		"AIRDESK_SESSION_ENCRYPTION_KEY": key,
	})

	ctx := context.Background()
	eng, closeFn, err := BuildEngine(ctx, cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	defer closeFn()

	for _, msg := range []string{"book", "Chennai", "Kolkata", "6E55", "2025-07-01"} {
		_, err := eng.Chat(ctx, "enc", msg)
		require.NoError(t, err)
	}

	bookings, err := eng.Ledger().List(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.True(t, mr.Exists("test:booking:"+bookings[0].ID))

	// Pending fields never reach redis in clear text.
	_, err = eng.Chat(ctx, "enc", "book")
	require.NoError(t, err)
	_, err = eng.Chat(ctx, "enc", "Bhopal")
	require.NoError(t, err)
	raw, err := mr.Get("test:session:enc")
	require.NoError(t, err)
	assert.NotContains(t, raw, "Bhopal")

	var envelope map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope))
	assert.NotEmpty(t, envelope["sealed"])
}

func TestBuildEngine_RedisUnreachable(t *testing.T) {
	cfg := loadConfig(t, map[string]string{
		"AIRDESK_SESSION_BACKEND": "redis",
		"AIRDESK_REDIS_ADDR":      "127.0.0.1:1",
	})

	_, _, err := BuildEngine(context.Background(), cfg, logging.NewNop(), nil)
	assert.ErrorContains(t, err, "failed to reach redis")
}

func TestBuildEngine_CatalogOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := []byte(`cities: [Lisbon, Porto]
policies:
  - topic: baggage
    answer: One bag only.
fallback: Ask about baggage.
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	cfg := loadConfig(t, map[string]string{"AIRDESK_CATALOG": path})

	var logs bytes.Buffer
	eng, closeFn, err := BuildEngine(context.Background(), cfg, logging.NewWith(&logs, logging.FormatText, slog.LevelDebug), nil)
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, []string{"Lisbon", "Porto"}, eng.Catalog().Cities)
	reply, err := eng.Chat(context.Background(), "s", "what is the baggage policy")
	require.NoError(t, err)
	assert.Equal(t, "One bag only.", reply)
	assert.Contains(t, logs.String(), "engine ready")
}

func TestBuildEngine_BadCatalogPath(t *testing.T) {
	cfg := loadConfig(t, map[string]string{"AIRDESK_CATALOG": filepath.Join(t.TempDir(), "missing.yaml")})

	_, _, err := BuildEngine(context.Background(), cfg, logging.NewNop(), nil)
	assert.Error(t, err)
}

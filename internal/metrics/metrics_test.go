package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/airdesk"
	"github.com/aretw0/airdesk/internal/metrics"
	"github.com/aretw0/airdesk/pkg/booking"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks_CountEngineEvents(t *testing.T) {
	m := metrics.New()
	eng, err := airdesk.New(
		airdesk.WithLifecycleHooks(m.Hooks()),
		airdesk.WithGenerator(booking.NewSequence("AB12CD")),
	)
	require.NoError(t, err)

	ctx := context.Background()
	for _, msg := range []string{"book", "Delhi", "Goa", "AI1", "2025-03-01", "hello", "cancel", "AB12CD"} {
		_, err := eng.Chat(ctx, "s1", msg)
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("book")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("help")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("none", "awaiting_from")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("awaiting_date", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Bookings.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Bookings.WithLabelValues("canceled")))
	// Seven distinct stage changes; "hello" stays idle and is not one of them.
	assert.Equal(t, 7, testutil.CollectAndCount(m.Transitions))
}

func TestObserveChat(t *testing.T) {
	m := metrics.New()
	m.ObserveChat("http", 0.01, nil)
	m.ObserveChat("http", 0.02, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.ChatLatency))
}

func TestHandler(t *testing.T) {
	m := metrics.New()
	m.Turns.WithLabelValues("help").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `airdesk_turns_total{intent="help"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}

// Package metrics exposes dialogue activity as Prometheus metrics, fed by
// the engine's lifecycle hooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/airdesk/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "airdesk"

// Metrics holds the collectors and the registry they are registered on.
type Metrics struct {
	Registry *prometheus.Registry

	Turns       *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Bookings    *prometheus.CounterVec
	ChatLatency *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "turns_total",
				Help:      "Messages processed, by dispatch intent.",
			},
			[]string{"intent"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_transitions_total",
				Help:      "Dialogue stage changes.",
			},
			[]string{"from", "to"},
		),
		Bookings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bookings_total",
				Help:      "Ledger mutations caused by the dialogue.",
			},
			[]string{"event"},
		),
		ChatLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "chat_duration_seconds",
				Help:      "Time to answer a chat message, by transport.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"transport", "outcome"},
		),
	}
	m.Registry.MustRegister(
		m.Turns,
		m.Transitions,
		m.Bookings,
		m.ChatLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns lifecycle hooks that record engine events.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			m.Turns.WithLabelValues(e.Intent).Inc()
			if e.From != e.To {
				m.Transitions.WithLabelValues(e.From.Label(), e.To.Label()).Inc()
			}
		},
		OnBookingCreated: func(ctx context.Context, e *domain.BookingEvent) {
			m.Bookings.WithLabelValues("created").Inc()
		},
		OnBookingCanceled: func(ctx context.Context, e *domain.BookingEvent) {
			m.Bookings.WithLabelValues("canceled").Inc()
		},
	}
}

// ObserveChat records how long a transport took to answer.
func (m *Metrics) ObserveChat(transport string, seconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ChatLatency.WithLabelValues(transport, outcome).Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

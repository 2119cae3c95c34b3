package http

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/airdesk"
	"github.com/aretw0/airdesk/internal/logging"
	"github.com/aretw0/airdesk/internal/metrics"
	"github.com/aretw0/airdesk/pkg/catalog"
	"github.com/aretw0/airdesk/pkg/domain"
	"github.com/aretw0/airdesk/pkg/ports"
	"github.com/aretw0/airdesk/pkg/runner"
	"github.com/aretw0/airdesk/pkg/ticket"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

//go:embed openapi.yaml
var rawSpec []byte

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply to POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Info is the body of GET /info.
type Info struct {
	App        string `json:"app"`
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	Cities     int    `json:"cities"`
	Policies   int    `json:"policies"`
}

// Server serves a Conversation over HTTP.
type Server struct {
	Conversation ports.Conversation
	Streams      *StreamManager

	catalog *catalog.Catalog
	ledger  ports.Ledger
	metrics *metrics.Metrics
	logger  *slog.Logger
	spec    *openapi3.T
}

// Option configures the HTTP server.
type Option func(*Server)

// WithCatalog reports catalog sizes on /info.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithLedger enables e-ticket downloads.
func WithLedger(l ports.Ledger) Option {
	return func(s *Server) {
		s.ledger = l
	}
}

// WithMetrics records chat latency and mounts /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the conversation.
// It fails only when the embedded API document is invalid.
func NewHandler(conv ports.Conversation, opts ...Option) (http.Handler, error) {
	server := &Server{
		Conversation: conv,
		Streams:      NewStreamManager(),
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams.logger = server.logger

	spec, validate, err := newValidator(rawSpec, server.logger)
	if err != nil {
		return nil, err
	}
	server.spec = spec

	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(validate)
		r.Get("/health", server.GetHealth)
		r.Get("/info", server.GetInfo)
		r.Get("/events", server.SubscribeEvents)
		r.With(sessionMiddleware).Post("/chat", server.Chat)
		if server.ledger != nil {
			r.Get("/bookings/{bookingId}/ticket", server.GetTicket)
		}
	})

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderSessionID)
		w.Header().Set("Access-Control-Expose-Headers", HeaderSessionID)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Airdesk API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// maxBodySize bounds the request body. JSON escaping can grow a message up
// to six bytes per input byte.
func maxBodySize() int64 {
	return int64(runner.MaxInputSize())*6 + 1024
}

// Chat handles the POST /chat request.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sessionID := SessionID(r.Context())

	var body ChatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize())
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.logger.Warn("chat: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := s.Conversation.Chat(r.Context(), sessionID, body.Message)
	if s.metrics != nil {
		s.metrics.ObserveChat("http", time.Since(start).Seconds(), err)
	}
	if err != nil {
		switch {
		case errors.Is(err, runner.ErrInputTooLarge):
			s.logger.Warn("chat: input rejected", "error", err, "size", len(body.Message))
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, runner.ErrInvalidUTF8), errors.Is(err, airdesk.ErrMissingSession):
			s.logger.Warn("chat: input rejected", "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("chat failed", "error", err, "session_id", sessionID)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if payload, err := json.Marshal(exchange{Message: strings.TrimSpace(body.Message), Response: reply}); err == nil {
		s.Streams.Broadcast(sessionID, string(payload))
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
}

// GetTicket handles the GET /bookings/{bookingId}/ticket request.
func (s *Server) GetTicket(w http.ResponseWriter, r *http.Request) {
	id := strings.ToUpper(chi.URLParam(r, "bookingId"))
	b, err := s.ledger.Get(r.Context(), id)
	if errors.Is(err, domain.ErrBookingNotFound) {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err != nil {
		s.logger.Error("ticket lookup failed", "error", err, "booking_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	pdf, err := ticket.Render(b)
	if err != nil {
		s.logger.Error("ticket rendering failed", "error", err, "booking_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", ticket.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", ticket.Filename(b)))
	w.Write(pdf)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	info := Info{
		App:        "airdesk-http",
		Version:    strings.TrimSpace(airdesk.Version),
		APIVersion: "unknown",
	}
	if s.spec != nil && s.spec.Info != nil {
		info.APIVersion = s.spec.Info.Version
	}
	if s.catalog != nil {
		info.Cities = len(s.catalog.Cities)
		info.Policies = len(s.catalog.Policies)
	}
	writeJSON(w, http.StatusOK, info)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

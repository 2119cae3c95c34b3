package mcp

import (
	"context"
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
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// CatalogURI names the resource exposing cities and policy topics.
const CatalogURI = "airdesk://catalog"

// chatArgs are the arguments of the chat tool.
type chatArgs struct {
	SessionID string `mapstructure:"session_id"`
	Message   string `mapstructure:"message"`
}

// bookingArgs are the arguments of the get_booking tool.
type bookingArgs struct {
	BookingID string `mapstructure:"booking_id"`
}

// Server exposes a Conversation as an MCP server.
type Server struct {
	conv      ports.Conversation
	ledger    ports.Ledger
	catalog   *catalog.Catalog
	metrics   *metrics.Metrics
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the MCP server.
type Option func(*Server)

// WithLedger enables the read-only get_booking tool.
func WithLedger(l ports.Ledger) Option {
	return func(s *Server) {
		s.ledger = l
	}
}

// WithCatalog publishes the catalog as a resource.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithMetrics records tool latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the logger. It must not write to stdout under stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(conv ports.Conversation, opts ...Option) *Server {
	s := &Server{
		conv:      conv,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("airdesk-mcp", strings.TrimSpace(airdesk.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("mcp server listening (sse)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("chat",
		mcp.WithDescription("Send one customer message to the airline assistant and get its reply. "+
			"Reuse the same session_id to continue a conversation (booking, cancellation, status, policy questions)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation identifier chosen by the caller")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Customer message")),
	), s.handleChat)

	if s.ledger != nil {
		s.mcpServer.AddTool(mcp.NewTool("get_booking",
			mcp.WithDescription("Look up a booking by its 6-character ID without changing the conversation."),
			mcp.WithString("booking_id", mcp.Required(), mcp.Description("Booking ID, case-insensitive")),
		), s.handleGetBooking)
	}
}

func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args chatArgs
	if err := mapstructure.Decode(request.GetArguments(), &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if strings.TrimSpace(args.SessionID) == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	start := time.Now()
	reply, err := s.conv.Chat(ctx, args.SessionID, args.Message)
	if s.metrics != nil {
		s.metrics.ObserveChat("mcp", time.Since(start).Seconds(), err)
	}
	if err != nil {
		s.logger.Error("mcp chat failed", "error", err, "session_id", args.SessionID)
		return mcp.NewToolResultError(fmt.Sprintf("chat failed: %v", err)), nil
	}
	return mcp.NewToolResultText(reply), nil
}

func (s *Server) handleGetBooking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args bookingArgs
	if err := mapstructure.Decode(request.GetArguments(), &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	id := strings.ToUpper(strings.TrimSpace(args.BookingID))
	b, err := s.ledger.Get(ctx, id)
	if errors.Is(err, domain.ErrBookingNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("booking %q not found", id)), nil
	}
	if err != nil {
		s.logger.Error("mcp booking lookup failed", "error", err, "booking_id", id)
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to encode booking: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	if s.catalog == nil {
		return
	}
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Cities and policy topics",
		mcp.WithMIMEType("application/json"),
	), s.readCatalog)
}

func (s *Server) readCatalog(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(struct {
		Cities []string `json:"cities"`
		Topics []string `json:"topics"`
	}{
		Cities: s.catalog.Cities,
		Topics: s.catalog.Topics(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CatalogURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

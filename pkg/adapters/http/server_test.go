package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/airdesk"
	"github.com/aretw0/airdesk/internal/metrics"
	"github.com/aretw0/airdesk/pkg/booking"
	"github.com/aretw0/airdesk/pkg/catalog"
	"github.com/aretw0/airdesk/pkg/runner"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConversation answers with a fixed reply or error.
type stubConversation struct {
	reply    string
	err      error
	sessions []string
}

func (s *stubConversation) Chat(ctx context.Context, sessionID, message string) (string, error) {
	s.sessions = append(s.sessions, sessionID)
	return s.reply, s.err
}

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *airdesk.Engine) {
	t.Helper()
	eng, err := airdesk.New(airdesk.WithGenerator(booking.NewSequence("HT7P2Q")))
	require.NoError(t, err)
	h, err := NewHandler(eng, opts...)
	require.NoError(t, err)
	return h, eng
}

func postChat(t *testing.T, h http.Handler, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(HeaderSessionID, sessionID)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeReply(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ChatResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Response
}

func TestChat_BookingConversation(t *testing.T) {
	h, eng := newTestHandler(t)

	steps := []struct {
		message string
		want    string
	}{
		{"book a flight", "Sure! Please tell me your departure city."},
		{"Delhi", "Got it. Now tell me your destination city."},
		{"Mumbai", "Please provide your flight number."},
		{"ai101", "Enter your flight date (YYYY-MM-DD)."},
		{"2025-03-01", "Booking ID: HT7P2Q"},
	}
	for _, step := range steps {
		body := fmt.Sprintf(`{"message":%q}`, step.message)
		w := postChat(t, h, "web-1", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, decodeReply(t, w), step.want)
	}

	b, err := eng.Ledger().Get(context.Background(), "HT7P2Q")
	require.NoError(t, err)
	assert.Equal(t, "On Time", b.Status)
}

func TestChat_IssuesSessionCookie(t *testing.T) {
	h, _ := newTestHandler(t)

	w := postChat(t, h, "", `{"message":"book"}`)
	require.Equal(t, http.StatusOK, w.Code)

	res := w.Result()
	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "expected a session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, cookie.Value, res.Header.Get(HeaderSessionID))

	// The cookie carries the dialogue forward.
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"Delhi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "Got it. Now tell me your destination city.", decodeReply(t, w2))
	assert.Empty(t, w2.Result().Cookies(), "known session must not be reissued")
}

func TestChat_HeaderWinsOverCookie(t *testing.T) {
	stub := &stubConversation{reply: "hi"}
	h, err := NewHandler(stub)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderSessionID, "from-header")
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"from-header"}, stub.sessions)
}

func TestChat_MissingMessageDefaultsToEmpty(t *testing.T) {
	h, _ := newTestHandler(t)

	w := postChat(t, h, "s", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeReply(t, w), "I can help you with:")
}

func TestChat_RejectsContractViolations(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"wrong type", `{"message": 42}`},
		{"not json", `book a flight`},
		{"empty body", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postChat(t, h, "s", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestChat_InputTooLarge(t *testing.T) {
	t.Setenv(runner.EnvMaxInputSize, "16")
	h, _ := newTestHandler(t)

	w := postChat(t, h, "s", `{"message":"this message is far longer than sixteen bytes"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestChat_InfrastructureFailure(t *testing.T) {
	stub := &stubConversation{err: errors.New("redis: connection refused")}
	m := metrics.New()
	h, err := NewHandler(stub, WithMetrics(m))
	require.NoError(t, err)

	w := postChat(t, h, "s", `{"message":"book"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "internal error", resp.Error, "storage details must not leak")
	assert.Equal(t, 1, testutil.CollectAndCount(m.ChatLatency))
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	h, _ := newTestHandler(t, WithMetrics(m))

	require.Equal(t, http.StatusOK, postChat(t, h, "s", `{"message":"hello"}`).Code)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `airdesk_chat_duration_seconds_count{outcome="ok",transport="http"} 1`)
}

func TestGetTicket(t *testing.T) {
	eng, err := airdesk.New(airdesk.WithGenerator(booking.NewSequence("TK9ZZ1")))
	require.NoError(t, err)
	h, err := NewHandler(eng, WithLedger(eng.Ledger()))
	require.NoError(t, err)

	for _, msg := range []string{"book", "Jaipur", "Patna", "sg8", "2025-05-05"} {
		require.Equal(t, http.StatusOK, postChat(t, h, "tk", fmt.Sprintf(`{"message":%q}`, msg)).Code)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/tk9zz1/ticket", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ETICKET_TK9ZZ1.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/AAAAAA/ticket", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/bad-id/ticket", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestHandler(t, WithCatalog(catalog.Default()))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var info Info
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, "airdesk-http", info.App)
	assert.Equal(t, "1.0.0", info.APIVersion)
	assert.Equal(t, len(catalog.Default().Cities), info.Cities)
	assert.Equal(t, len(catalog.Default().Policies), info.Policies)
}

func TestOpenAPIDocumentServed(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/chat:")
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/chat", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), HeaderSessionID)
}

func TestSubscribeEvents_RequiresSession(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeEvents_Session(t *testing.T) {
	h, err := NewHandler(&stubConversation{reply: "Sure! Please tell me your departure city."})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?session_id=sess-1", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	lines := bufio.NewScanner(res.Body)
	nextData := func() string {
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok {
				return data
			}
		}
		return ""
	}
	require.Equal(t, "connected", nextData())

	chatReq, err := http.NewRequest(http.MethodPost, srv.URL+"/chat", strings.NewReader(`{"message":"  book  "}`))
	require.NoError(t, err)
	chatReq.Header.Set("Content-Type", "application/json")
	chatReq.Header.Set(HeaderSessionID, "sess-1")
	chatRes, err := http.DefaultClient.Do(chatReq)
	require.NoError(t, err)
	chatRes.Body.Close()
	require.Equal(t, http.StatusOK, chatRes.StatusCode)

	var got exchange
	require.NoError(t, json.Unmarshal([]byte(nextData()), &got))
	assert.Equal(t, exchange{Message: "book", Response: "Sure! Please tell me your departure city."}, got)
}

func TestStreamManager_UnsubscribeIsIdempotent(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("s")
	assert.Equal(t, 1, sm.Subscribers("s"))

	sm.Broadcast("s", "one")
	assert.Equal(t, "one", <-ch)

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers("s"))
	_, open := <-ch
	assert.False(t, open)

	// No subscribers left: must not block or panic.
	sm.Broadcast("s", "two")
}

package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// CookieName carries the session ID for browser clients.
	CookieName = "airdesk_session"
	// HeaderSessionID carries the session ID for API clients. It wins over the cookie.
	HeaderSessionID = "X-Session-ID"
)

type sessionKey struct{}

// SessionID returns the session resolved for the request, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// sessionMiddleware resolves the session from the header or cookie, and
// issues a new cookie when the client has neither.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderSessionID))
		if id == "" {
			if c, err := r.Cookie(CookieName); err == nil {
				id = strings.TrimSpace(c.Value)
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(HeaderSessionID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

// Package session is the gate in front of the directory: a user logs in
// with the configured credentials, receives an opaque token, and every
// command must present it until logout or expiry.
package session

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/employees-api/internal/utils/response"
)

var ErrInvalidCredentials = errors.New("session: invalid username or password")

// Gate issues and checks session tokens. Sessions live in memory only;
// a restart logs everyone out.
type Gate struct {
	username string
	password string
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
}

// New returns a Gate accepting one username/password pair. A ttl <= 0
// means sessions never expire.
func New(username, password string, ttl time.Duration) *Gate {
	return &Gate{
		username: username,
		password: password,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]time.Time),
	}
}

// Login checks the credentials and opens a session.
func (g *Gate) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()

	g.mu.Lock()
	defer g.mu.Unlock()

	var expiry time.Time
	if g.ttl > 0 {
		expiry = g.now().Add(g.ttl)
	}
	g.sessions[token] = expiry
	g.sweep()

	return token, nil
}

// IsAuthenticated reports whether token belongs to a live session.
func (g *Gate) IsAuthenticated(token string) bool {
	if token == "" {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	expiry, ok := g.sessions[token]
	if !ok {
		return false
	}
	if !expiry.IsZero() && !g.now().Before(expiry) {
		delete(g.sessions, token)
		return false
	}
	return true
}

// Logout ends the session. Unknown tokens are ignored.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.sessions, token)
}

// sweep drops expired sessions. Caller holds g.mu.
func (g *Gate) sweep() {
	now := g.now()
	for token, expiry := range g.sessions {
		if !expiry.IsZero() && !now.Before(expiry) {
			delete(g.sessions, token)
		}
	}
}

// Middleware rejects requests without a live "Authorization: Bearer"
// token with 401 Unauthorized.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.IsAuthenticated(TokenFromRequest(r)) {
			slog.Debug("rejected unauthenticated request",
				slog.String("method", r.Method), slog.String("path", r.URL.Path))
			response.WriteJSON(w, http.StatusUnauthorized,
				response.GeneralError(errors.New("not authenticated")))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TokenFromRequest extracts the bearer token, or "".
func TokenFromRequest(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

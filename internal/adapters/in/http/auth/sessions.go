package auth

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/bnema/stevedore/internal/domain"
)

const (
	// MinSecretLength is the shortest accepted session secret.
	MinSecretLength = 32

	keyUsername      = "username"
	keyAuthenticated = "authenticated"
	keyIssuedAt      = "issued_at"
)

// SessionConfig configures the session cookie.
type SessionConfig struct {
	Secret     string
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Sessions stores the console identity in a signed and encrypted cookie.
type Sessions struct {
	store *sessions.CookieStore
	name  string
}

// NewSessions creates the cookie store. The secret signs the cookie and a
// key derived from it encrypts the payload.
func NewSessions(cfg SessionConfig) (*Sessions, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "stevedore_session"
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 24 * time.Hour
	}

	blockKey := sha256.Sum256([]byte("stevedore-session-encryption:" + cfg.Secret))
	store := sessions.NewCookieStore([]byte(cfg.Secret), blockKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)

	return &Sessions{store: store, name: cfg.CookieName}, nil
}

// Identity returns the identity carried by the request cookie.
// Missing, tampered or expired cookies yield the anonymous identity.
func (s *Sessions) Identity(r *http.Request) domain.Identity {
	session, err := s.store.Get(r, s.name)
	if err != nil || session.IsNew {
		return domain.Anonymous
	}
	authenticated, _ := session.Values[keyAuthenticated].(bool)
	username, _ := session.Values[keyUsername].(string)
	if !authenticated || username == "" {
		return domain.Anonymous
	}
	return domain.Identity{Authenticated: true, Username: username}
}

// Save issues a fresh session cookie for username.
func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, username string) error {
	session, _ := s.store.Get(r, s.name)
	for k := range session.Values {
		delete(session.Values, k)
	}
	session.Values[keyAuthenticated] = true
	session.Values[keyUsername] = username
	session.Values[keyIssuedAt] = time.Now().Unix()
	return session.Save(r, w)
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, s.name)
	for k := range session.Values {
		delete(session.Values, k)
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"femilyship-web/internal/data"
	"femilyship-web/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned by Login when the token or username is empty.
var ErrInvalidSession = errors.New("session requires a token and a username")

// Store is the durable backing of the session pair.
type Store interface {
	Save(ctx context.Context, token, username string) error
	Load(ctx context.Context) (data.Credentials, error)
	Clear(ctx context.Context) error
}

// Manager is the client's belief about who is logged in.
//
// It starts Unauthenticated. Bootstrap is the only transition driven by
// persisted state; afterwards every query is answered from memory and only
// Login and Logout change it. The token is never validated locally: the
// server stays the authority and rejects it when it is no longer good.
type Manager struct {
	mu             sync.RWMutex
	store          Store
	log            logger.Logger
	discardExpired bool
	now            func() time.Time

	bootstrapped bool
	token        string
	username     string
	expiresAt    time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithDiscardExpired makes Bootstrap drop a stored JWT whose exp claim has passed.
func WithDiscardExpired(discard bool) Option {
	return func(m *Manager) { m.discardExpired = discard }
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an Unauthenticated Manager backed by store.
func NewManager(store Store, log logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bootstrap restores a persisted session. Only the first call reads the store.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bootstrapped {
		return nil
	}
	m.bootstrapped = true

	creds, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if !creds.Valid() {
		m.log.Debug("No stored session found")
		return nil
	}

	expiresAt, hasExpiry := tokenExpiry(creds.Token)
	if m.discardExpired && hasExpiry && !m.now().Before(expiresAt) {
		m.log.Info(fmt.Sprintf("Stored session for %s expired at %s, discarding", creds.Username, expiresAt.Format(time.RFC3339)))
		if err := m.store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to discard expired session: %w", err)
		}
		return nil
	}

	m.set(creds.Token, creds.Username, expiresAt)
	m.log.Info(fmt.Sprintf("Restored session for %s", creds.Username))
	return nil
}

// Login persists the pair and moves to Authenticated(username).
// If the store write fails the state is left untouched.
func (m *Manager) Login(ctx context.Context, token, username string) error {
	if token == "" || username == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(ctx, token, username); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	expiresAt, _ := tokenExpiry(token)
	m.set(token, username, expiresAt)
	m.bootstrapped = true
	m.log.Info(fmt.Sprintf("User %s logged in", username))
	return nil
}

// Logout clears the store and moves to Unauthenticated. The in-memory
// transition happens even when clearing the store fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	username := m.username
	m.set("", "", time.Time{})
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}
	if username != "" {
		m.log.Info(fmt.Sprintf("User %s logged out", username))
	}
	return nil
}

// CurrentUser returns the logged-in username.
func (m *Manager) CurrentUser() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.username, m.username != ""
}

// IsAuthenticated reports whether a user is logged in.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.CurrentUser()
	return ok
}

// BearerToken returns the token to present to the API.
func (m *Manager) BearerToken() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// ExpiresAt returns the token's unverified exp claim. It is a display hint only.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiresAt, !m.expiresAt.IsZero()
}

func (m *Manager) set(token, username string, expiresAt time.Time) {
	m.token = token
	m.username = username
	m.expiresAt = expiresAt
}

// tokenExpiry reads the exp claim of a JWT without checking its signature.
// Opaque tokens report no expiry.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

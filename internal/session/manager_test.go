//go:build unit

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"femilyship-web/internal/api"
	"femilyship-web/internal/config"
	"femilyship-web/internal/data"
	"femilyship-web/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

// mockStore is an in-memory Store.
type mockStore struct {
	creds      data.Credentials
	saveErr    error
	clearErr   error
	loadCalled int
	saveCalled int
	clearCalls int
}

var _ Store = (*mockStore)(nil)

func (m *mockStore) Save(ctx context.Context, token, username string) error {
	m.saveCalled++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.creds = data.Credentials{Token: token, Username: username}
	return nil
}

func (m *mockStore) Load(ctx context.Context) (data.Credentials, error) {
	m.loadCalled++
	return m.creds, nil
}

func (m *mockStore) Clear(ctx context.Context) error {
	m.clearCalls++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.creds = data.Credentials{}
	return nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func TestManager_LoginLogout(t *testing.T) {
	store := &mockStore{}
	m := NewManager(store, logger.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if m.IsAuthenticated() {
			t.Fatalf("round %d: expected unauthenticated before login", i)
		}
		if err := m.Login(ctx, "abc123", "alice"); err != nil {
			t.Fatalf("round %d: Login failed: %v", i, err)
		}
		if !m.IsAuthenticated() {
			t.Fatalf("round %d: expected authenticated after login", i)
		}
		if user, ok := m.CurrentUser(); !ok || user != "alice" {
			t.Errorf("round %d: expected current user alice, got %q", i, user)
		}
		if err := m.Logout(ctx); err != nil {
			t.Fatalf("round %d: Logout failed: %v", i, err)
		}
		if m.IsAuthenticated() {
			t.Fatalf("round %d: expected unauthenticated after logout", i)
		}
		if _, ok := m.BearerToken(); ok {
			t.Errorf("round %d: expected no bearer token after logout", i)
		}
	}
	if store.creds.Valid() {
		t.Error("expected store to be cleared")
	}
}

func TestManager_LoginRejectsHalfPair(t *testing.T) {
	store := &mockStore{}
	m := NewManager(store, logger.Nop())

	if err := m.Login(context.Background(), "", "alice"); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
	if err := m.Login(context.Background(), "abc123", ""); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
	if store.saveCalled != 0 {
		t.Errorf("expected no store writes, got %d", store.saveCalled)
	}
	if m.IsAuthenticated() {
		t.Error("expected unauthenticated")
	}
}

func TestManager_LoginStoreFailureKeepsState(t *testing.T) {
	store := &mockStore{saveErr: errors.New("disk full")}
	m := NewManager(store, logger.Nop())

	if err := m.Login(context.Background(), "abc123", "alice"); err == nil {
		t.Fatal("expected error")
	}
	if m.IsAuthenticated() {
		t.Error("failed login must not authenticate")
	}
}

func TestManager_LogoutStoreFailureStillLogsOut(t *testing.T) {
	store := &mockStore{}
	m := NewManager(store, logger.Nop())
	ctx := context.Background()
	if err := m.Login(ctx, "abc123", "alice"); err != nil {
		t.Fatal(err)
	}

	store.clearErr = errors.New("read-only file")
	if err := m.Logout(ctx); err == nil {
		t.Error("expected the store error to be returned")
	}
	if m.IsAuthenticated() {
		t.Error("expected unauthenticated even though the store could not be cleared")
	}
}

func TestManager_Bootstrap(t *testing.T) {
	t.Run("restores stored pair", func(t *testing.T) {
		store := &mockStore{creds: data.Credentials{Token: "abc123", Username: "alice"}}
		m := NewManager(store, logger.Nop())

		if err := m.Bootstrap(context.Background()); err != nil {
			t.Fatalf("Bootstrap failed: %v", err)
		}
		if user, ok := m.CurrentUser(); !ok || user != "alice" {
			t.Errorf("expected alice, got %q", user)
		}
		if token, _ := m.BearerToken(); token != "abc123" {
			t.Errorf("expected token abc123, got %q", token)
		}
	})

	t.Run("stays unauthenticated without a pair", func(t *testing.T) {
		m := NewManager(&mockStore{}, logger.Nop())
		if err := m.Bootstrap(context.Background()); err != nil {
			t.Fatalf("Bootstrap failed: %v", err)
		}
		if m.IsAuthenticated() {
			t.Error("expected unauthenticated")
		}
	})

	t.Run("reads storage only once", func(t *testing.T) {
		store := &mockStore{}
		m := NewManager(store, logger.Nop())
		m.Bootstrap(context.Background())

		// A pair written behind the manager's back must not be picked up.
		store.creds = data.Credentials{Token: "abc123", Username: "alice"}
		m.Bootstrap(context.Background())

		if store.loadCalled != 1 {
			t.Errorf("expected one load, got %d", store.loadCalled)
		}
		if m.IsAuthenticated() {
			t.Error("state must not be re-derived from storage after bootstrap")
		}
	})

	t.Run("discards expired jwt", func(t *testing.T) {
		now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		store := &mockStore{creds: data.Credentials{Token: signedToken(t, now.Add(-time.Hour)), Username: "alice"}}
		m := NewManager(store, logger.Nop(), WithDiscardExpired(true), WithClock(func() time.Time { return now }))

		if err := m.Bootstrap(context.Background()); err != nil {
			t.Fatalf("Bootstrap failed: %v", err)
		}
		if m.IsAuthenticated() {
			t.Error("expected expired session to be discarded")
		}
		if store.clearCalls != 1 || store.creds.Valid() {
			t.Error("expected the expired pair to be cleared from the store")
		}
	})

	t.Run("keeps expired jwt when discarding is off", func(t *testing.T) {
		now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		store := &mockStore{creds: data.Credentials{Token: signedToken(t, now.Add(-time.Hour)), Username: "alice"}}
		m := NewManager(store, logger.Nop(), WithClock(func() time.Time { return now }))

		m.Bootstrap(context.Background())
		if !m.IsAuthenticated() {
			t.Error("expected the stored token to be trusted")
		}
	})

	t.Run("exposes expiry hint of a live jwt", func(t *testing.T) {
		now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		exp := now.Add(24 * time.Hour)
		store := &mockStore{creds: data.Credentials{Token: signedToken(t, exp), Username: "alice"}}
		m := NewManager(store, logger.Nop(), WithDiscardExpired(true), WithClock(func() time.Time { return now }))

		m.Bootstrap(context.Background())
		got, ok := m.ExpiresAt()
		if !ok || !got.Equal(exp) {
			t.Errorf("expected expiry %v, got %v (%v)", exp, got, ok)
		}
	})
}

func TestManager_BootstrapConfiguresAPIClient(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	store := &mockStore{creds: data.Credentials{Token: "abc123", Username: "alice"}}
	m := NewManager(store, logger.Nop())
	client := api.New(config.APIConfig{BaseURL: srv.URL, Timeout: time.Second}, m, logger.Nop())

	if _, err := client.ListTopics(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header before bootstrap, got %q", gotAuth)
	}

	if err := m.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := client.ListTopics(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("expected bearer token after bootstrap, got %q", gotAuth)
	}

	m.Logout(context.Background())
	if _, err := client.ListTopics(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("expected Authorization header to be removed after logout, got %q", gotAuth)
	}
}

func TestManager_AuthErrorDoesNotLogOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewManager(&mockStore{}, logger.Nop())
	m.Login(context.Background(), "abc123", "alice")
	client := api.New(config.APIConfig{BaseURL: srv.URL, Timeout: time.Second}, m, logger.Nop())

	err := client.DeleteEssay(context.Background(), 9)
	if !errors.Is(err, api.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if user, ok := m.CurrentUser(); !ok || user != "alice" {
		t.Error("a 401 must not change the session")
	}
}

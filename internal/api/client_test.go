//go:build unit

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"femilyship-web/internal/config"
	"femilyship-web/internal/data"
	"femilyship-web/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticCredentials is a fixed Credentials implementation.
type staticCredentials struct {
	token string
}

func (s staticCredentials) BearerToken() (string, bool) {
	return s.token, s.token != ""
}

func newTestClient(t *testing.T, srv *httptest.Server, creds Credentials) *Client {
	t.Helper()
	cfg := config.APIConfig{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	}
	return New(cfg, creds, logger.Nop())
}

func TestClient_AttachesBearerOnlyWhenAuthenticated(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, staticCredentials{token: "abc123"}).ListTopics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.NotEmpty(t, gotRequestID)

	_, err = newTestClient(t, srv, staticCredentials{}).ListTopics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	_, err = newTestClient(t, srv, nil).ListTopics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ClassifiesStatuses(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{"not found", http.StatusNotFound, ``, ErrNotFound, "Not Found"},
		{"unauthorized", http.StatusUnauthorized, `{"message":"token expired"}`, ErrAuth, "token expired"},
		{"forbidden", http.StatusForbidden, ``, ErrAuth, "Forbidden"},
		{"validation with message", http.StatusBadRequest, `{"message":"Password is too weak"}`, ErrValidation, "Password is too weak"},
		{"conflict with error field", http.StatusConflict, `{"error":"Username already exists"}`, ErrValidation, "Username already exists"},
		{"server", http.StatusBadGateway, `oops`, ErrServer, "Bad Gateway"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			client := newTestClient(t, srv, nil)
			err := client.DeleteEssay(context.Background(), 9)

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.status, StatusOf(err))
			assert.Equal(t, tc.wantMsg, MessageOf(err))
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := New(config.APIConfig{BaseURL: url, Timeout: time.Second}, nil, logger.Nop())
	_, err := client.GetEssay(context.Background(), 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestClient_TimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := New(config.APIConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil, logger.Nop())
	_, err := client.GetTopic(context.Background(), 5)

	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClient_RetriesGetOnceOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 5, "name": "Family Tree"})
	}))
	defer srv.Close()

	topic, err := newTestClient(t, srv, nil).GetTopic(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, "Family Tree", topic.Title)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestClient_GivesUpAfterOneRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, nil).ListTopics(context.Background())

	assert.ErrorIs(t, err, ErrServer)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryMutations(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient(t, srv, nil).UpdateEssay(context.Background(), 9, data.EssayInput{Title: "t", Content: "c", TopicID: 1})

	assert.ErrorIs(t, err, ErrServer)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryNotFound(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, nil).GetTopic(context.Background(), 5)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClient_MalformedBodyIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := New(config.APIConfig{BaseURL: srv.URL, Timeout: time.Second}, nil, logger.Nop())
	_, err := client.GetEssay(context.Background(), 1)

	assert.ErrorIs(t, err, ErrServer)
}

func TestClient_UpdateEssaySendsInput(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody data.EssayInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	in := data.EssayInput{Title: "Roots", Content: "## Heading", TopicID: 3}
	err := newTestClient(t, srv, staticCredentials{token: "abc123"}).UpdateEssay(context.Background(), 9, in)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/essays/9", gotPath)
	assert.Equal(t, in, gotBody)
}

func TestClient_LoginUsesConfiguredPath(t *testing.T) {
	var gotPath string
	var gotBody data.AuthRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"accessToken":"abc123"}`))
	}))
	defer srv.Close()

	client := New(config.APIConfig{BaseURL: srv.URL, Timeout: time.Second, LoginPath: "/api/auth/signin"}, nil, logger.Nop())
	resp, err := client.Login(context.Background(), "alice", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "/api/auth/signin", gotPath)
	assert.Equal(t, data.AuthRequest{Username: "alice", Password: "secret1"}, gotBody)
	assert.Equal(t, "abc123", resp.BearerToken())
}

func TestError_IsMatchesKind(t *testing.T) {
	err := &Error{Kind: KindAuth, Status: http.StatusForbidden, Message: "nope"}
	wrapped := errors.Join(errors.New("context"), err)

	assert.True(t, errors.Is(wrapped, ErrAuth))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindAuth, KindOf(wrapped))
}

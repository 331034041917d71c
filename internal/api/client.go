package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"femilyship-web/internal/config"
	"femilyship-web/internal/data"
	"femilyship-web/internal/logger"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 4 << 20

// Client talks to the remote content API.
type Client struct {
	cfg        config.APIConfig
	httpClient *http.Client
	log        logger.Logger
}

// New creates a Client. creds is consulted on every request; a nil creds sends
// every request anonymously.
func New(cfg config.APIConfig, creds Credentials, log logger.Logger) *Client {
	return NewWithTransport(cfg, creds, log, http.DefaultTransport)
}

// NewWithTransport is New with an explicit base transport.
func NewWithTransport(cfg config.APIConfig, creds Credentials, log logger.Logger, base http.RoundTripper) *Client {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/api/auth/login"
	}
	if cfg.SignupPath == "" {
		cfg.SignupPath = "/api/auth/signup"
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &bearerTransport{base: base, creds: creds},
		},
		log: log,
	}
}

// Do sends a JSON request and decodes a 2xx response body into out (when non-nil).
// Any other outcome is returned as an *Error. GET requests are retried on network
// and server errors up to the configured number of times.
func (c *Client) Do(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet && c.cfg.MaxRetries > 0 {
		attempts += c.cfg.MaxRetries
	}

	var lastErr *Error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.log.Warn(fmt.Sprintf("Retrying %s %s after %s", method, path, lastErr))
			if err := wait(ctx, c.cfg.RetryBackoff); err != nil {
				return &Error{Kind: KindNetwork, Message: "request cancelled", Err: err}
			}
		}

		lastErr = c.send(ctx, method, path, payload, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || !retryable(lastErr) {
			break
		}
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out interface{}) *Error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error(err, fmt.Sprintf("%s %s failed", method, path))
		return &Error{Kind: KindNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: "failed to read response", Err: err}
	}
	c.log.Debug(fmt.Sprintf("%s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "malformed response body", Err: err}
		}
		return nil
	}

	return classify(resp.StatusCode, decodeMessage(respBody))
}

// decodeMessage extracts {"message": ...} (or {"error": ...}) from an error body.
func decodeMessage(body []byte) string {
	var msg struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &msg); err != nil {
		return ""
	}
	if msg.Message != "" {
		return msg.Message
	}
	return msg.Error
}

func retryable(err *Error) bool {
	return err.Kind == KindNetwork || err.Kind == KindServer
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Login posts credentials to the login endpoint.
func (c *Client) Login(ctx context.Context, username, password string) (*data.AuthResponse, error) {
	var resp data.AuthResponse
	if err := c.Do(ctx, http.MethodPost, c.cfg.LoginPath, data.AuthRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup posts credentials to the registration endpoint.
func (c *Client) Signup(ctx context.Context, username, password string) (*data.AuthResponse, error) {
	var resp data.AuthResponse
	if err := c.Do(ctx, http.MethodPost, c.cfg.SignupPath, data.AuthRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTopics returns the topic summaries in server order.
func (c *Client) ListTopics(ctx context.Context) ([]data.Topic, error) {
	var topics []data.Topic
	if err := c.Do(ctx, http.MethodGet, "/api/topics", nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// GetTopic returns a topic with its essays.
func (c *Client) GetTopic(ctx context.Context, id int64) (*data.Topic, error) {
	var topic data.Topic
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/topics/%d", id), nil, &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

// GetEssay returns a single essay.
func (c *Client) GetEssay(ctx context.Context, id int64) (*data.Essay, error) {
	var essay data.Essay
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/essays/%d", id), nil, &essay); err != nil {
		return nil, err
	}
	return &essay, nil
}

// UpdateEssay replaces an essay's title, content and topic.
func (c *Client) UpdateEssay(ctx context.Context, id int64, in data.EssayInput) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/essays/%d", id), in, nil)
}

// DeleteEssay removes an essay.
func (c *Client) DeleteEssay(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/essays/%d", id), nil, nil)
}

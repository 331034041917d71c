package service

import (
	"context"
	"fmt"
	"strings"

	"femilyship-web/internal/api"
	"femilyship-web/internal/logger"
)

// minPasswordLength is the shortest password the auth form accepts.
const minPasswordLength = 6

// Form errors are reported as validation errors so callers can show their message as-is.
var (
	ErrMissingFields    = &api.Error{Kind: api.KindValidation, Message: "Please fill in all fields"}
	ErrPasswordTooShort = &api.Error{Kind: api.KindValidation, Message: fmt.Sprintf("Password must be at least %d characters long", minPasswordLength)}
	ErrNoToken          = &api.Error{Kind: api.KindValidation, Message: "server did not issue a token"}
)

// AuthService logs users in and out of the API.
type AuthService struct {
	api     ContentAPI
	session Session
	log     logger.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(client ContentAPI, session Session, log logger.Logger) *AuthService {
	return &AuthService{
		api:     client,
		session: session,
		log:     log,
	}
}

// Login checks the form, exchanges the credentials for a token and starts a session.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	username, err := validateCredentials(username, password)
	if err != nil {
		return err
	}

	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if resp.Success != nil && !*resp.Success {
		return &api.Error{Kind: api.KindValidation, Message: nonEmpty(resp.Message, "Login failed")}
	}
	token := resp.BearerToken()
	if token == "" {
		return ErrNoToken
	}

	if err := s.session.Login(ctx, token, username); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}

// Signup checks the form and registers a new account. It does not log the user in.
func (s *AuthService) Signup(ctx context.Context, username, password string) error {
	username, err := validateCredentials(username, password)
	if err != nil {
		return err
	}

	resp, err := s.api.Signup(ctx, username, password)
	if err != nil {
		return err
	}
	if resp.Success != nil && !*resp.Success {
		return &api.Error{Kind: api.KindValidation, Message: nonEmpty(resp.Message, "Registration failed")}
	}
	s.log.Info(fmt.Sprintf("Registered user %s", username))
	return nil
}

// Logout ends the current session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// validateCredentials returns the trimmed username when the form is acceptable.
func validateCredentials(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return "", ErrMissingFields
	}
	if len([]rune(password)) < minPasswordLength {
		return "", ErrPasswordTooShort
	}
	return username, nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

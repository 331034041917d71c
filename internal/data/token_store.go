package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Well-known keys of the credentials table.
const (
	TokenKey          = "token"
	UsernameKey       = "username"
	AuthenticatedFlag = "isAuthenticated"
)

// ErrIncompleteCredentials is returned when Save is called with a missing half of the pair.
var ErrIncompleteCredentials = errors.New("token and username must both be set")

// TokenStore persists the session pair in the client state database.
type TokenStore struct {
	db *sqlx.DB
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(db *sqlx.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Save writes the token and username in a single transaction.
func (s *TokenStore) Save(ctx context.Context, token, username string) error {
	if token == "" || username == "" {
		return ErrIncompleteCredentials
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin credentials transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT OR REPLACE INTO credentials (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	for _, kv := range [][2]string{{TokenKey, token}, {UsernameKey, username}} {
		if _, err := tx.ExecContext(ctx, query, kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to save %s: %w", kv[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit credentials: %w", err)
	}
	return nil
}

// Load returns the stored pair, or the zero Credentials if either half is missing or empty.
func (s *TokenStore) Load(ctx context.Context) (Credentials, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	query := `SELECT key, value FROM credentials WHERE key IN (?, ?)`
	if err := s.db.SelectContext(ctx, &rows, query, TokenKey, UsernameKey); err != nil {
		return Credentials{}, fmt.Errorf("failed to load credentials: %w", err)
	}

	var creds Credentials
	for _, row := range rows {
		switch row.Key {
		case TokenKey:
			creds.Token = row.Value
		case UsernameKey:
			creds.Username = row.Value
		}
	}
	if !creds.Valid() {
		return Credentials{}, nil
	}
	return creds, nil
}

// Clear removes both halves of the pair and any auxiliary flags.
func (s *TokenStore) Clear(ctx context.Context) error {
	query := `DELETE FROM credentials WHERE key IN (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, TokenKey, UsernameKey, AuthenticatedFlag); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

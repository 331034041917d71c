package session

import (
	"context"
	"net/http"
)

// Flash abstracts the cookie-backed store used to carry one-shot messages
// across a redirect. *scs.SessionManager satisfies it.
type Flash interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	PopString(ctx context.Context, key string) string
}

// FlashKey is the key under which flash messages are stored.
const FlashKey = "flash"

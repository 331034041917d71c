package view

import (
	"context"
	"net/http"
)

type settingsKey string

const (
	// BasicModeKey is the key for the basic mode setting in the request context.
	BasicModeKey settingsKey = "basicMode"
)

// IsBasicMode returns true if the "basic mode" flag is set in the request context.
func IsBasicMode(ctx context.Context) bool {
	basic, ok := ctx.Value(BasicModeKey).(bool)
	return ok && basic
}

// IsHTMX reports whether r came from htmx and should be answered with HX-* headers.
// Basic mode always gets plain HTTP responses.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" && !IsBasicMode(r.Context())
}

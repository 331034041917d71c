package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies the outcome of a failed API call.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindAuth
	KindNotFound
	KindValidation
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against any *Error of the same kind.
var (
	ErrNetwork    = &Error{Kind: KindNetwork, Message: "network error"}
	ErrAuth       = &Error{Kind: KindAuth, Message: "not authorized"}
	ErrNotFound   = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation = &Error{Kind: KindValidation, Message: "invalid request"}
	ErrServer     = &Error{Kind: KindServer, Message: "server error"}
)

// Error is returned by every Client call that does not end in a 2xx response.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, zero for transport failures
	Message string // server-supplied message when there is one
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can write errors.Is(err, api.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of err, or zero if err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// StatusOf returns the HTTP status carried by err, or zero.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the server-supplied message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// classify maps a non-2xx status and its decoded message to an *Error.
func classify(status int, message string) *Error {
	e := &Error{Status: status, Message: message}
	switch {
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindAuth
	case status >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindValidation
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

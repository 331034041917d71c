package api

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Credentials supplies the bearer token for outgoing requests.
// The session manager is the production implementation.
type Credentials interface {
	BearerToken() (string, bool)
}

// bearerTransport attaches the current bearer token and a request ID to every request.
// Unlike oauth2.Transport it sends the request without a header when there is no token.
type bearerTransport struct {
	base  http.RoundTripper
	creds Credentials
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	if t.creds != nil {
		if token, ok := t.creds.BearerToken(); ok {
			(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
		}
	}
	return t.base.RoundTrip(req)
}

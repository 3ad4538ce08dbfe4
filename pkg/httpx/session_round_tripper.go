package httpx

import (
	"fmt"
	"net/http"
)

type sessionSource interface {
	BearerToken() string
	Headers() http.Header
}

// SessionRoundTripper decorates every request with the captured session:
// bearer token, cookie header and browser fingerprint headers. It never
// re-authenticates mid-flight — a 401 is classified upstream and ends the
// current run, so retrying here would only mask an expired session.
type SessionRoundTripper struct {
	next    http.RoundTripper
	session sessionSource
}

func NewSessionRoundTripper(
	next http.RoundTripper,
	session sessionSource,
) SessionRoundTripper {
	return SessionRoundTripper{
		next:    next,
		session: session,
	}
}

func (rt SessionRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for name, values := range rt.session.Headers() {
		for _, value := range values {
			req.Header.Set(name, value)
		}
	}

	if token := rt.session.BearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}

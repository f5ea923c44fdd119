package client

import (
	"context"
	"net/http"
	"sync"
)

type ctxKey int

const credentialRequestKey ctxKey = iota

// credentialRequest marks ctx as belonging to a token or register call.
func credentialRequest(ctx context.Context) context.Context {
	return context.WithValue(ctx, credentialRequestKey, true)
}

func isCredentialRequest(ctx context.Context) bool {
	v, _ := ctx.Value(credentialRequestKey).(bool)
	return v
}

// authTransport attaches the bearer token and reports 401s to the
// credential source.
type authTransport struct {
	base http.RoundTripper

	mu    sync.RWMutex
	creds Credentials
}

func (t *authTransport) source() Credentials {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.creds
}

func (t *authTransport) setSource(c Credentials) {
	t.mu.Lock()
	t.creds = c
	t.mu.Unlock()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	creds := t.source()
	if creds == nil || isCredentialRequest(req.Context()) {
		return t.base.RoundTrip(req)
	}

	token, gen := creds.Credential()
	if token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		creds.Unauthorized(gen)
	}
	return resp, nil
}

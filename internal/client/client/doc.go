// Package client is the authenticated request gateway of the trip planner.
//
// # Overview
//
// HTTPClient is the only transport the client uses to reach the backend.
// Its RoundTripper (authTransport) attaches "Authorization: Bearer <token>"
// whenever the credential source holds a token, and reports every 401 back
// to that source together with the token generation the request carried.
// The source (the session manager) collapses concurrent 401s of the same
// generation into a single forced logout.
//
// Credential endpoints (token and register) bypass both the header and the
// 401 report: a rejected login must not log out an existing session.
//
// # Error Handling
//
// Every non-2xx response becomes a *StatusError carrying the status code and
// the server's "detail" message. StatusError unwraps to a sentinel so callers
// can match with errors.Is: ErrUnauthorized (401), ErrForbidden (403),
// ErrNotFound (404), ErrUnavailable (502/503/504). Network failures wrap
// ErrUnavailable as well. Requests are never retried.
package client

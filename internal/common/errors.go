// Package common defines the sentinel errors shared by the server's
// repositories, services and HTTP handlers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// ErrorNotConfigured is returned by optional integrations that were not
	// given an endpoint.
	ErrorNotConfigured = errors.New("not configured")

	// ErrorUpstream wraps failures of the recommendation engine.
	ErrorUpstream = errors.New("upstream error")
)

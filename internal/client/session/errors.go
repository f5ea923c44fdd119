package session

import (
	"errors"
	"net/http"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/client"
)

var (
	// ErrSessionExpired is returned by Login when the token was accepted but
	// the identity behind it could not be resolved. The session is purged.
	ErrSessionExpired = errors.New("session expired")

	ErrLoginInProgress = errors.New("login already in progress")
)

// Failure classifies an AuthError.
type Failure string

const (
	FailureInvalidCredentials Failure = "invalid_credentials"
	FailureValidation         Failure = "validation_failed"
	FailureDuplicateAccount   Failure = "duplicate_account"
	FailureServer             Failure = "server_error"
)

var fallbackMessages = map[Failure]string{
	FailureInvalidCredentials: "invalid username or password",
	FailureValidation:         "registration details are invalid",
	FailureDuplicateAccount:   "an account with this username or email already exists",
	FailureServer:             "server error, please try again",
}

// AuthError is a login or signup failure. Detail is the server's message
// verbatim when one was supplied.
type AuthError struct {
	Reason Failure
	Detail string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallbackMessages[e.Reason]
}

func (e *AuthError) Unwrap() error { return e.Err }

func loginError(err error) error {
	reason := FailureServer
	switch client.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusBadRequest, http.StatusForbidden, http.StatusUnprocessableEntity:
		reason = FailureInvalidCredentials
	}
	return &AuthError{Reason: reason, Detail: client.Detail(err), Err: err}
}

func signupError(err error) error {
	reason := FailureServer
	switch client.StatusCode(err) {
	case http.StatusConflict:
		reason = FailureDuplicateAccount
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		reason = FailureValidation
	}
	return &AuthError{Reason: reason, Detail: client.Detail(err), Err: err}
}

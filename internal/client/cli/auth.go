package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errPasswordMismatch = errors.New("passwords do not match")

// Login prompts for a username and password and starts a session.
//
// A rejected login keeps whatever session existed before. When the token is
// accepted but the identity cannot be resolved, the session is purged and
// session.ErrSessionExpired is returned.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, username, password); err != nil {
		return err
	}

	a.printf("Welcome, %s! Where would you like to go?\n", a.session.User().DisplayName())
	return nil
}

// Signup registers a new account. It does not log in.
func (a *App) Signup(ctx context.Context) error {
	var s models.Signup
	var err error

	if s.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if s.Name, err = getSimpleText(a.reader, "Full name (optional)", a.out); err != nil {
		return err
	}
	if s.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if s.Password, err = getPassword(a.reader, "Password", a.out); err != nil {
		return err
	}
	confirm, err := getPassword(a.reader, "Repeat password", a.out)
	if err != nil {
		return err
	}
	if confirm != s.Password {
		return errPasswordMismatch
	}

	if err := a.session.Signup(ctx, s); err != nil {
		return err
	}

	a.println("Account created. Use 'login' to sign in.")
	return nil
}

// Logout ends the session. The notice is printed by the session listener.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Not logged in.")
		return nil
	}
	a.session.Logout(ctx)
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	u := a.session.User()
	if u == nil || !a.isLoggedIn() {
		a.println("Not logged in.")
		return nil
	}
	a.printf("%s (%s) <%s>\n", u.DisplayName(), u.Username, u.Email)
	return nil
}

// DeleteAccount permanently removes the account after confirmation.
func (a *App) DeleteAccount(ctx context.Context, confirmed bool) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if !confirmed && !Confirm(a.reader, "Delete your account and all trips? This cannot be undone.", a.out) {
		a.println("Cancelled.")
		return nil
	}
	if err := a.session.DeleteAccount(ctx); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// userMessage turns an error into the line shown to the user.
func userMessage(err error) string {
	var authErr *session.AuthError
	switch {
	case errors.As(err, &authErr):
		return authErr.Error()
	case errors.Is(err, session.ErrSessionExpired):
		return "Your session could not be established. Please log in again."
	}
	return err.Error()
}

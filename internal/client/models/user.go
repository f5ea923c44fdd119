// Package models defines the client-side data model of the trip planner:
// identities, conversations, messages and the opaque turn-state token.
package models

import "time"

// User is the identity record returned by GET /api/auth/me. It is always
// derived from a validated token and never trusted from local storage.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Signup carries the registration form.
type Signup struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

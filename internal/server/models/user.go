// Package models holds the server's persistent records.
package models

import "time"

type User struct {
	ID           string
	Username     string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

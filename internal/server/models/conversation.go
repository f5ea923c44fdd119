package models

import (
	"encoding/json"
	"time"
)

// Message roles accepted by the append endpoint.
const (
	RoleUser   = "user"
	RoleAgent  = "agent"
	RoleSystem = "system"
)

func ValidRole(r string) bool {
	switch r {
	case RoleUser, RoleAgent, RoleSystem:
		return true
	}
	return false
}

// DefaultTitle is given to conversations created without one.
const DefaultTitle = "New Trip"

type Conversation struct {
	ID        string
	UserID    string
	SessionID string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []Message
}

// Message is one transcript entry. Metadata is opaque JSON stored as is;
// nil means the message carried none.
type Message struct {
	Role      string
	Text      string
	Metadata  json.RawMessage
	Timestamp time.Time
}

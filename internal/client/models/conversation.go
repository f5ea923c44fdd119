package models

import "time"

// DefaultTitle is the sentinel title of a conversation nobody has named yet.
const DefaultTitle = "New Trip"

// ConversationSummary is one row of the conversation list.
type ConversationSummary struct {
	// ID is the server-assigned identifier.
	ID string `json:"id"`

	// Title is the human-readable label; DefaultTitle until inferred.
	Title string `json:"title"`

	// SessionID is the client grouping key supplied at creation.
	SessionID string `json:"session_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the time of the last mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// HasDefaultTitle reports whether the title is still the sentinel (or unset).
func (c ConversationSummary) HasDefaultTitle() bool {
	return c.Title == "" || c.Title == DefaultTitle
}

// Conversation is a summary plus its full, chronologically ordered history.
type Conversation struct {
	ConversationSummary
	UserID   string    `json:"user_id,omitempty"`
	Messages []Message `json:"messages"`
}

// Message is one immutable transcript entry.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	// State is the turn-state token attached to assistant messages. It travels
	// as the message "metadata" on the wire.
	State TurnState `json:"metadata,omitempty"`
}

// LastTurnState returns the state carried by the most recent assistant
// message, or nil when the history has no assistant message.
func LastTurnState(messages []Message) TurnState {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleAssistant {
			if messages[i].State.IsNull() {
				return nil
			}
			return messages[i].State
		}
	}
	return nil
}

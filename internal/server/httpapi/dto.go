package httpapi

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/models"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type createConversationRequest struct {
	Title     string `json:"title"`
	SessionID string `json:"session_id"`
}

type updateTitleRequest struct {
	Title string `json:"title"`
}

type messageDTO struct {
	Role      string          `json:"role"`
	Text      string          `json:"text"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type appendRequest struct {
	ConversationID string     `json:"conversation_id"`
	Message        messageDTO `json:"message"`
}

type conversationSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	SessionID string    `json:"session_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type conversationResponse struct {
	conversationSummary
	UserID   string       `json:"user_id"`
	Messages []messageDTO `json:"messages"`
}

func newSummary(c *models.Conversation) conversationSummary {
	return conversationSummary{
		ID:        c.ID,
		Title:     c.Title,
		SessionID: c.SessionID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func newConversationResponse(c *models.Conversation) conversationResponse {
	msgs := make([]messageDTO, 0, len(c.Messages))
	for _, m := range c.Messages {
		msgs = append(msgs, messageDTO{
			Role:      m.Role,
			Text:      m.Text,
			Metadata:  m.Metadata,
			Timestamp: m.Timestamp,
		})
	}
	return conversationResponse{
		conversationSummary: newSummary(c),
		UserID:              c.UserID,
		Messages:            msgs,
	}
}

// toMessage converts the wire form. A JSON null metadata is stored as
// absent.
func (m messageDTO) toMessage() models.Message {
	meta := m.Metadata
	if t := bytes.TrimSpace(meta); len(t) == 0 || bytes.Equal(t, []byte("null")) {
		meta = nil
	}
	return models.Message{
		Role:      m.Role,
		Text:      m.Text,
		Metadata:  meta,
		Timestamp: m.Timestamp,
	}
}

type deletedResponse struct {
	Deleted        bool   `json:"deleted"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

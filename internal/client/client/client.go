package client

import (
	"context"
	"time"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
)

// Client is the backend contract. Consumers declare the narrower subsets
// they need.
type Client interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, s models.Signup) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
	DeleteMe(ctx context.Context) error

	ListConversations(ctx context.Context) ([]models.ConversationSummary, error)
	CreateConversation(ctx context.Context, title, sessionID string) (*models.Conversation, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	UpdateTitle(ctx context.Context, id, title string) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, conversationID string, msg models.Message) error

	Query(ctx context.Context, query string, previous models.TurnState) (*QueryResult, error)
}

// Credentials is the token source consulted on every request.
type Credentials interface {
	// Credential returns the current token ("" when anonymous) and the
	// generation it belongs to.
	Credential() (token string, generation uint64)
	// Unauthorized reports a 401 received for a request sent with the given
	// generation.
	Unauthorized(generation uint64)
}

// QueryResult is one assistant turn.
type QueryResult struct {
	Response     string           `json:"response"`
	CurrentState models.TurnState `json:"current_state"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type createConversationRequest struct {
	Title     string `json:"title"`
	SessionID string `json:"session_id,omitempty"`
}

type updateTitleRequest struct {
	Title string `json:"title"`
}

type appendMessageRequest struct {
	ConversationID string      `json:"conversation_id"`
	Message        wireMessage `json:"message"`
}

type wireMessage struct {
	Role      string           `json:"role"`
	Text      string           `json:"text"`
	Metadata  models.TurnState `json:"metadata"`
	Timestamp time.Time        `json:"timestamp"`
}

type queryRequest struct {
	Query         string           `json:"query"`
	PreviousState models.TurnState `json:"previous_state"`
}

type errorBody struct {
	Detail any `json:"detail"`
}

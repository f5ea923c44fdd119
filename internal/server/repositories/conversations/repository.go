// Package conversations persists conversations and their messages.
package conversations

import (
	"context"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Conversation) (*models.Conversation, error)
	// Get returns the conversation header without messages.
	Get(ctx context.Context, id string) (*models.Conversation, error)
	Messages(ctx context.Context, conversationID string) ([]models.Message, error)
	// ListByUser returns headers ordered by updated_at, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Conversation, error)
	AppendMessage(ctx context.Context, conversationID string, m models.Message) error
	UpdateTitle(ctx context.Context, id, title string) (*models.Conversation, error)
	Delete(ctx context.Context, id string) error
}

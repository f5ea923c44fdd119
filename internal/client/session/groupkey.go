package session

import (
	"context"
	"fmt"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/repositories/metadata"
	"github.com/google/uuid"
)

// GroupingKey returns the install-wide key sent as session_id when creating
// conversations, generating and persisting it on first use. It survives
// logout.
func GroupingKey(ctx context.Context, store metadata.Repository) (string, error) {
	key, ok, err := store.Get(ctx, metadata.KeySessionID)
	if err != nil {
		return "", err
	}
	if ok && key != "" {
		return key, nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate session key: %w", err)
	}
	if err := store.Set(ctx, metadata.KeySessionID, id.String()); err != nil {
		return "", err
	}
	return id.String(), nil
}

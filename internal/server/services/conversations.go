package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/common"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/dbx"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/models"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/repositories/conversations"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/repositories/repomanager"
)

const maxTitleLength = 200

type ConversationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewConversationService(db *sql.DB, m repomanager.RepositoryManager) *ConversationService {
	return &ConversationService{db: db, repomanager: m, now: time.Now}
}

// owned loads the header of id and checks that userID owns it:
// common.ErrorNotFound when missing, common.ErrorForbidden when foreign.
func owned(ctx context.Context, repo conversations.Repository, userID, id string) (*models.Conversation, error) {
	c, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return c, nil
}

func (s *ConversationService) Create(ctx context.Context, userID, title, sessionID string) (*models.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = models.DefaultTitle
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, validationError("title is too long")
	}

	c, err := s.repomanager.Conversations(s.db).Create(ctx, &models.Conversation{
		UserID:    userID,
		SessionID: strings.TrimSpace(sessionID),
		Title:     title,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating conversation: %w", err)
	}
	c.Messages = []models.Message{}
	return c, nil
}

func (s *ConversationService) List(ctx context.Context, userID string) ([]models.Conversation, error) {
	list, err := s.repomanager.Conversations(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing conversations: %w", err)
	}
	return list, nil
}

// Get returns the conversation with its full transcript.
func (s *ConversationService) Get(ctx context.Context, userID, id string) (*models.Conversation, error) {
	repo := s.repomanager.Conversations(s.db)

	c, err := owned(ctx, repo, userID, id)
	if err != nil {
		return nil, err
	}

	msgs, err := repo.Messages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading messages: %w", err)
	}
	c.Messages = msgs
	return c, nil
}

// Append adds m to the end of conversation id. The ownership check and the
// insert run in one transaction.
func (s *ConversationService) Append(ctx context.Context, userID, id string, m models.Message) error {
	if !models.ValidRole(m.Role) {
		return validationError(fmt.Sprintf("role %q is not one of user, agent, system", m.Role))
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = s.now()
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Conversations(tx)
		if _, err := owned(ctx, repo, userID, id); err != nil {
			return err
		}
		return repo.AppendMessage(ctx, id, m)
	})
}

func (s *ConversationService) UpdateTitle(ctx context.Context, userID, id, title string) (*models.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, validationError("title is too long")
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Conversation, error) {
		repo := s.repomanager.Conversations(tx)
		if _, err := owned(ctx, repo, userID, id); err != nil {
			return nil, err
		}
		return repo.UpdateTitle(ctx, id, title)
	})
}

func (s *ConversationService) Delete(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Conversations(s.db)
	if _, err := owned(ctx, repo, userID, id); err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error deleting conversation: %w", err)
	}
	return nil
}

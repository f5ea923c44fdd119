// Package conversations keeps the locally displayed conversation list
// consistent with the backend while letting the UI mutate it optimistically.
package conversations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/logging"
	"golang.org/x/sync/errgroup"
)

var ErrNotPersistable = errors.New("message role is never persisted")

// API is the conversation half of the backend.
type API interface {
	ListConversations(ctx context.Context) ([]models.ConversationSummary, error)
	CreateConversation(ctx context.Context, title, sessionID string) (*models.Conversation, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	UpdateTitle(ctx context.Context, id, title string) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, conversationID string, msg models.Message) error
}

type Synchronizer struct {
	api        API
	sessionKey string
	logger     logging.Logger
	now        func() time.Time

	mu    sync.Mutex
	cache []models.ConversationSummary
}

// NewSynchronizer binds the backend API to the grouping key sent with every
// created conversation.
func NewSynchronizer(api API, sessionKey string, logger logging.Logger) *Synchronizer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Synchronizer{api: api, sessionKey: sessionKey, logger: logger, now: time.Now}
}

// List fetches the caller's conversations and replaces the local cache.
func (s *Synchronizer) List(ctx context.Context) ([]models.ConversationSummary, error) {
	list, err := s.api.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	if list == nil {
		list = []models.ConversationSummary{}
	}

	s.mu.Lock()
	s.cache = append([]models.ConversationSummary(nil), list...)
	s.mu.Unlock()
	return list, nil
}

// Create makes a conversation server-side. An empty title becomes
// models.DefaultTitle.
func (s *Synchronizer) Create(ctx context.Context, title string) (*models.Conversation, error) {
	if title == "" {
		title = models.DefaultTitle
	}
	conv, err := s.api.CreateConversation(ctx, title, s.sessionKey)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	normalize(conv)
	return conv, nil
}

// Fetch returns one conversation with its full history, roles translated to
// the client vocabulary.
func (s *Synchronizer) Fetch(ctx context.Context, id string) (*models.Conversation, error) {
	conv, err := s.api.GetConversation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch conversation %s: %w", id, err)
	}
	normalize(conv)
	return conv, nil
}

// Append persists one message. A failure is returned but nothing local is
// rolled back.
func (s *Synchronizer) Append(ctx context.Context, id string, msg models.Message) error {
	if !msg.Role.Persistable() {
		return ErrNotPersistable
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	msg.Role = models.Role(models.ToServerRole(string(msg.Role)))
	if msg.Role != models.ServerRoleAgent {
		msg.State = nil
	}

	if err := s.api.AppendMessage(ctx, id, msg); err != nil {
		return fmt.Errorf("append to %s: %w", id, err)
	}
	s.touch(id, msg.Timestamp)
	return nil
}

// UpdateTitle renames a conversation, applying the title to the local cache
// before the server confirms it.
func (s *Synchronizer) UpdateTitle(ctx context.Context, id, title string) error {
	s.setCachedTitle(id, title)

	conv, err := s.api.UpdateTitle(ctx, id, title)
	if err != nil {
		return fmt.Errorf("update title of %s: %w", id, err)
	}
	if conv != nil && conv.Title != "" {
		s.setCachedTitle(id, conv.Title)
	}
	return nil
}

// Delete removes a conversation permanently. Clearing the active selection
// is the caller's job.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteConversation(ctx, id); err != nil {
		return fmt.Errorf("delete conversation %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cache {
		if s.cache[i].ID == id {
			s.cache = append(s.cache[:i], s.cache[i+1:]...)
			break
		}
	}
	return nil
}

// Cached returns a copy of the locally known list.
func (s *Synchronizer) Cached() []models.ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ConversationSummary(nil), s.cache...)
}

// InsertHead puts sum at the front of the local list, replacing any entry
// with the same id.
func (s *Synchronizer) InsertHead(sum models.ConversationSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rest := make([]models.ConversationSummary, 0, len(s.cache)+1)
	rest = append(rest, sum)
	for _, c := range s.cache {
		if c.ID != sum.ID {
			rest = append(rest, c)
		}
	}
	s.cache = rest
}

// Refresh re-reads the list and, when activeID is set, the active
// conversation. The two reads run concurrently.
func (s *Synchronizer) Refresh(ctx context.Context, activeID string) ([]models.ConversationSummary, *models.Conversation, error) {
	var (
		list   []models.ConversationSummary
		active *models.Conversation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.List(gctx)
		return err
	})
	if activeID != "" {
		g.Go(func() error {
			var err error
			active, err = s.Fetch(gctx, activeID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return list, active, nil
}

// ApplyInferredTitle names the conversation after text when its server-side
// title is still the default. It returns the title in effect afterwards.
func (s *Synchronizer) ApplyInferredTitle(ctx context.Context, id, text string) (string, error) {
	conv, err := s.Fetch(ctx, id)
	if err != nil {
		return "", err
	}
	if !conv.HasDefaultTitle() {
		return conv.Title, nil
	}

	title := InferTitle(text)
	if title == models.DefaultTitle {
		return title, nil
	}
	if err := s.UpdateTitle(ctx, id, title); err != nil {
		return conv.Title, err
	}
	s.logger.Debug(ctx, "conversation titled", "conversation_id", id, "title", title)
	return title, nil
}

func (s *Synchronizer) setCachedTitle(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cache {
		if s.cache[i].ID == id {
			s.cache[i].Title = title
			return
		}
	}
}

// touch records a write and moves the conversation to the head of the list.
func (s *Synchronizer) touch(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cache {
		if s.cache[i].ID != id {
			continue
		}
		c := s.cache[i]
		c.UpdatedAt = at
		copy(s.cache[1:i+1], s.cache[:i])
		s.cache[0] = c
		return
	}
}

func normalize(conv *models.Conversation) {
	if conv.Messages == nil {
		conv.Messages = []models.Message{}
	}
	for i := range conv.Messages {
		conv.Messages[i].Role = models.FromServerRole(string(conv.Messages[i].Role))
	}
}

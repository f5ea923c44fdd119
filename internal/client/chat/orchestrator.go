// Package chat drives conversational turns: user message, persisted append,
// backend query, assistant message, persisted append. The opaque turn-state
// token returned by the backend is threaded into the next query.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/client"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/logging"
)

// ErrorNotice is the text of the local, never persisted, failure message.
const ErrorNotice = "Sorry, I ran into an error. Please try again."

var (
	ErrBusy       = errors.New("a turn is already in flight")
	ErrEmptyInput = errors.New("message is empty")
	// ErrDiscarded is returned when the view was torn down or navigated away
	// from while the operation was running. Nothing local was changed.
	ErrDiscarded = errors.New("result discarded after teardown")
)

type Conversations interface {
	Create(ctx context.Context, title string) (*models.Conversation, error)
	Fetch(ctx context.Context, id string) (*models.Conversation, error)
	Append(ctx context.Context, id string, msg models.Message) error
	ApplyInferredTitle(ctx context.Context, id, text string) (string, error)
	Delete(ctx context.Context, id string) error
	InsertHead(sum models.ConversationSummary)
}

type Backend interface {
	Query(ctx context.Context, query string, previous models.TurnState) (*client.QueryResult, error)
}

// View is a snapshot of the active conversation.
type View struct {
	ConversationID string
	Title          string
	Messages       []models.Message
	PreviousState  models.TurnState
	Busy           bool
}

type Orchestrator struct {
	convs   Conversations
	backend Backend
	logger  logging.Logger
	now     func() time.Time

	mu         sync.Mutex
	busy       bool
	activeID   string
	title      string
	transcript []models.Message
	prevState  models.TurnState
	// epoch changes on every navigation or teardown; results computed under
	// an older epoch are dropped.
	epoch  uint64
	cancel context.CancelFunc
}

func NewOrchestrator(convs Conversations, backend Backend, logger logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Orchestrator{convs: convs, backend: backend, logger: logger, now: time.Now}
}

func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return View{
		ConversationID: o.activeID,
		Title:          o.title,
		Messages:       append([]models.Message(nil), o.transcript...),
		PreviousState:  o.prevState,
		Busy:           o.busy,
	}
}

func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Submit runs one turn for text. It returns the message that ended the turn:
// the assistant reply, or the local error notice together with the cause.
func (o *Orchestrator) Submit(ctx context.Context, text string) (models.Message, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		return models.Message{}, ErrEmptyInput
	}

	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return models.Message{}, ErrBusy
	}
	o.busy = true
	epoch := o.epoch
	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	userMsg := models.Message{Role: models.RoleUser, Text: query, Timestamp: o.now()}
	o.transcript = append(o.transcript, userMsg)
	convID, title, prev := o.activeID, o.title, o.prevState
	o.mu.Unlock()

	defer func() {
		cancel()
		o.mu.Lock()
		if o.epoch == epoch {
			o.busy = false
			o.cancel = nil
		}
		o.mu.Unlock()
	}()

	fail := func(step string, err error) (models.Message, error) {
		notice := models.Message{Role: models.RoleError, Text: ErrorNotice, Timestamp: o.now()}
		if !o.apply(epoch, func() { o.transcript = append(o.transcript, notice) }) {
			return models.Message{}, ErrDiscarded
		}
		o.logger.Warn(ctx, "turn failed", "step", step, "conversation_id", convID, "err", err)
		return notice, err
	}

	if convID == "" {
		conv, err := o.convs.Create(ctx, models.DefaultTitle)
		if err != nil {
			return fail("create", err)
		}
		ok := o.apply(epoch, func() {
			o.activeID, o.title = conv.ID, conv.Title
			o.convs.InsertHead(conv.ConversationSummary)
		})
		if !ok {
			return models.Message{}, ErrDiscarded
		}
		convID, title = conv.ID, conv.Title
	}

	if err := o.convs.Append(ctx, convID, userMsg); err != nil {
		return fail("append user message", err)
	}

	if title == "" || title == models.DefaultTitle {
		newTitle, err := o.convs.ApplyInferredTitle(ctx, convID, query)
		if err != nil {
			o.logger.Info(ctx, "title not updated", "conversation_id", convID, "err", err)
		} else {
			o.apply(epoch, func() { o.title = newTitle })
		}
	}

	res, err := o.backend.Query(ctx, query, prev)
	if err != nil {
		return fail("query", err)
	}

	reply := models.Message{
		Role:      models.RoleAssistant,
		Text:      res.Response,
		Timestamp: o.now(),
		State:     res.CurrentState,
	}
	ok := o.apply(epoch, func() {
		o.transcript = append(o.transcript, reply)
		o.prevState = res.CurrentState
	})
	if !ok {
		return models.Message{}, ErrDiscarded
	}

	if err := o.convs.Append(ctx, convID, reply); err != nil {
		return fail("append assistant message", err)
	}
	return reply, nil
}

// NewConversation clears the active view. The conversation itself is created
// on the first submission.
func (o *Orchestrator) NewConversation() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resetLocked()
}

// Load makes conversation id active and re-derives the turn state from its
// most recent assistant message. On any fetch error the view falls back to a
// new conversation and the error is returned.
func (o *Orchestrator) Load(ctx context.Context, id string) error {
	o.mu.Lock()
	o.resetLocked()
	epoch := o.epoch
	o.mu.Unlock()

	conv, err := o.convs.Fetch(ctx, id)
	if err != nil {
		o.logger.Info(ctx, "load failed, starting new conversation", "conversation_id", id, "err", err)
		return err
	}

	ok := o.apply(epoch, func() {
		o.activeID = conv.ID
		o.title = conv.Title
		o.transcript = conv.Messages
		o.prevState = models.LastTurnState(conv.Messages)
	})
	if !ok {
		return ErrDiscarded
	}
	return nil
}

// Delete removes a conversation and clears the view if it was active.
func (o *Orchestrator) Delete(ctx context.Context, id string) error {
	if err := o.convs.Delete(ctx, id); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.activeID == id {
		o.resetLocked()
	}
	return nil
}

// Teardown cancels any in-flight turn and clears the view. Completions of
// that turn are ignored.
func (o *Orchestrator) Teardown() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resetLocked()
}

// apply runs fn under the lock if epoch is still current.
func (o *Orchestrator) apply(epoch uint64, fn func()) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.epoch != epoch {
		return false
	}
	fn()
	return true
}

func (o *Orchestrator) resetLocked() {
	o.epoch++
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.busy = false
	o.activeID = ""
	o.title = ""
	o.transcript = nil
	o.prevState = nil
}

package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/common"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/logging"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/models"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/services"
)

var created = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeUsers struct {
	mu        sync.Mutex
	byToken   map[string]*models.User
	passwords map[string]string
	deleted   []string
	err       error
}

func newFakeUsers() *fakeUsers {
	alice := &models.User{ID: "u1", Username: "alice", Name: "Alice", Email: "alice@example.com", CreatedAt: created}
	bob := &models.User{ID: "u2", Username: "bob", Email: "bob@example.com", CreatedAt: created}
	return &fakeUsers{
		byToken:   map[string]*models.User{"tok-alice": alice, "tok-bob": bob},
		passwords: map[string]string{"alice": "pw"},
	}
}

func (f *fakeUsers) Register(_ context.Context, in services.RegisterInput) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if in.Username == "alice" {
		return nil, common.ErrorAlreadyExists
	}
	if !strings.Contains(in.Email, "@") {
		return nil, common.ErrorValidation
	}
	return &models.User{ID: "u9", Username: in.Username, Name: in.Name, Email: in.Email, CreatedAt: created}, nil
}

func (f *fakeUsers) Login(_ context.Context, login, password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.passwords[login] != password || password == "" {
		return "", common.ErrorUnauthorized
	}
	return "tok-" + login, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byToken[token]
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, userID)
	for tok, u := range f.byToken {
		if u.ID == userID {
			delete(f.byToken, tok)
		}
	}
	return nil
}

type fakeConversations struct {
	mu       sync.Mutex
	convs    map[string]*models.Conversation
	appended []models.Message
	err      error
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{convs: map[string]*models.Conversation{
		"c1": {ID: "c1", UserID: "u1", Title: "Trip to Ella", CreatedAt: created, UpdatedAt: created,
			Messages: []models.Message{{Role: models.RoleUser, Text: "hi", Timestamp: created}}},
	}}
}

func (f *fakeConversations) owned(userID, id string) (*models.Conversation, error) {
	c, ok := f.convs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if c.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return c, nil
}

func (f *fakeConversations) Create(_ context.Context, userID, title, sessionID string) (*models.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	if title == "" {
		title = models.DefaultTitle
	}
	return &models.Conversation{ID: "c2", UserID: userID, Title: title, SessionID: sessionID, CreatedAt: created, UpdatedAt: created}, nil
}

func (f *fakeConversations) List(_ context.Context, userID string) ([]models.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Conversation
	for _, c := range f.convs {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConversations) Get(_ context.Context, userID, id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owned(userID, id)
}

func (f *fakeConversations) Append(_ context.Context, userID, id string, m models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !models.ValidRole(m.Role) {
		return common.ErrorValidation
	}
	if _, err := f.owned(userID, id); err != nil {
		return err
	}
	f.appended = append(f.appended, m)
	return nil
}

func (f *fakeConversations) UpdateTitle(_ context.Context, userID, id, title string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, err := f.owned(userID, id)
	if err != nil {
		return nil, err
	}
	c.Title = title
	return c, nil
}

func (f *fakeConversations) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.owned(userID, id); err != nil {
		return err
	}
	delete(f.convs, id)
	return nil
}

type fakeRecommender struct {
	got services.QueryRequest
	err error
}

func (f *fakeRecommender) Query(_ context.Context, q services.QueryRequest) (*services.QueryResponse, error) {
	f.got = q
	if f.err != nil {
		return nil, f.err
	}
	return &services.QueryResponse{Response: "Go to " + q.Query, CurrentState: []byte(`{"status":"complete"}`)}, nil
}

type fixture struct {
	users *fakeUsers
	convs *fakeConversations
	rec   *fakeRecommender
	h     http.Handler
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{users: newFakeUsers(), convs: newFakeConversations(), rec: &fakeRecommender{}}
	f.h = NewServer(":0", logging.Nop(), f.users, f.convs, f.rec, opts...).Handler()
	return f
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

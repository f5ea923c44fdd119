package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/common"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/dbx"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/config"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/models"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/repositories/conversations"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	nextID  int
	err     error
	deleted []string
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, x := range f.byID {
		if x.Username == u.Username || x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	c := *u
	c.ID = fmt.Sprintf("u%d", f.nextID)
	c.CreatedAt = time.Now()
	f.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, x := range f.byID {
		if x.Username == login || x.Email == login {
			c := *x
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	x, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *x
	return &c, nil
}

func (f *fakeUsersRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeConversationsRepo struct {
	mu        sync.Mutex
	convs     map[string]*models.Conversation
	msgs      map[string][]models.Message
	nextID    int
	err       error
	appendErr error
}

func newFakeConversationsRepo() *fakeConversationsRepo {
	return &fakeConversationsRepo{
		convs: map[string]*models.Conversation{},
		msgs:  map[string][]models.Message{},
	}
}

func (f *fakeConversationsRepo) seed(userID, title string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("c%d", f.nextID)
	now := time.Now().Add(time.Duration(f.nextID) * time.Second)
	f.convs[id] = &models.Conversation{ID: id, UserID: userID, Title: title, CreatedAt: now, UpdatedAt: now}
	return id
}

func (f *fakeConversationsRepo) Create(_ context.Context, c *models.Conversation) (*models.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := f.seed(c.UserID, c.Title)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.convs[id].SessionID = c.SessionID
	out := *f.convs[id]
	return &out, nil
}

func (f *fakeConversationsRepo) Get(_ context.Context, id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.convs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *c
	return &out, nil
}

func (f *fakeConversationsRepo) Messages(_ context.Context, id string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Message{}, f.msgs[id]...), nil
}

func (f *fakeConversationsRepo) ListByUser(_ context.Context, userID string) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Conversation
	for _, c := range f.convs {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeConversationsRepo) AppendMessage(_ context.Context, id string, m models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.msgs[id] = append(f.msgs[id], m)
	f.convs[id].UpdatedAt = time.Now().Add(time.Hour)
	return nil
}

func (f *fakeConversationsRepo) UpdateTitle(_ context.Context, id, title string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.convs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c.Title = title
	out := *c
	return &out, nil
}

func (f *fakeConversationsRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.convs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.convs, id)
	delete(f.msgs, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeConversationsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), c: newFakeConversationsRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) Conversations(dbx.DBTX) conversations.Repository { return m.c }

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *UserService {
	t.Helper()
	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour}
	s := NewUserService(db, rm, cfg)
	s.bcryptCost = bcrypt.MinCost
	return s
}

package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/chat"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/config"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/session"
)

type fakeSession struct {
	mu       sync.Mutex
	state    session.State
	user     *models.User
	loginErr error
	signups  []models.Signup
	logins   []string
	touches  int
	deleted  bool
	listener func(session.Event)
}

func (f *fakeSession) State() session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSession) User() *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user
}

func (f *fakeSession) Login(_ context.Context, username, password string) error {
	f.mu.Lock()
	f.logins = append(f.logins, username+":"+password)
	if f.loginErr != nil {
		f.mu.Unlock()
		return f.loginErr
	}
	f.state = session.Authenticated
	f.user = &models.User{ID: "u1", Username: username, Name: "Asha Perera", Email: "asha@example.com"}
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) Signup(_ context.Context, s models.Signup) error {
	f.signups = append(f.signups, s)
	return nil
}

func (f *fakeSession) Logout(context.Context) { f.end(session.ReasonLogout) }

func (f *fakeSession) DeleteAccount(context.Context) error {
	f.deleted = true
	f.end(session.ReasonAccountDeleted)
	return nil
}

func (f *fakeSession) end(r session.Reason) {
	f.mu.Lock()
	was := f.state == session.Authenticated
	f.state = session.Anonymous
	f.user = nil
	fn := f.listener
	f.mu.Unlock()
	if was && fn != nil {
		fn(session.Event{Kind: session.LoggedOut, Reason: r})
	}
}

func (f *fakeSession) TouchActivity() { f.touches++ }

func (f *fakeSession) Subscribe(fn func(session.Event)) func() {
	f.listener = fn
	return func() { f.listener = nil }
}

type fakeTrips struct {
	list []models.ConversationSummary
}

func (f *fakeTrips) List(context.Context) ([]models.ConversationSummary, error) {
	return f.list, nil
}

func (f *fakeTrips) Cached() []models.ConversationSummary { return f.list }

type fakeTurn struct {
	view      chat.View
	reply     models.Message
	submitErr error
	loadErr   error
	submitted []string
	loaded    []string
	deleted   []string
	teardowns int
	newTitle  string
}

func (f *fakeTurn) Submit(_ context.Context, text string) (models.Message, error) {
	f.submitted = append(f.submitted, text)
	if f.newTitle != "" {
		f.view.Title = f.newTitle
	}
	return f.reply, f.submitErr
}

func (f *fakeTurn) NewConversation() { f.view = chat.View{} }

func (f *fakeTurn) Load(_ context.Context, id string) error {
	f.loaded = append(f.loaded, id)
	if f.loadErr != nil {
		f.view = chat.View{}
		return f.loadErr
	}
	f.view = chat.View{
		ConversationID: id,
		Title:          "Trip to Kandy",
		Messages: []models.Message{
			{Role: models.RoleUser, Text: "Take me to Kandy"},
			{Role: models.RoleAssistant, Text: "Kandy is lovely in April."},
		},
	}
	return nil
}

func (f *fakeTurn) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTurn) Teardown()       { f.teardowns++; f.view = chat.View{} }
func (f *fakeTurn) View() chat.View { return f.view }

type testApp struct {
	*App
	sess  *fakeSession
	trips *fakeTrips
	turn  *fakeTurn
	out   *bytes.Buffer
}

func newTestApp(t *testing.T, input string, loggedIn bool) *testApp {
	t.Helper()
	sess := &fakeSession{}
	if loggedIn {
		sess.state = session.Authenticated
		sess.user = &models.User{ID: "u1", Username: "asha", Name: "Asha Perera", Email: "asha@example.com"}
	}
	trips := &fakeTrips{}
	turn := &fakeTurn{}
	out := &bytes.Buffer{}

	cfg := &config.Config{}
	cfg.LoadDefaults()

	a := newApp(cfg, sess, trips, turn, strings.NewReader(input), out, nil)
	a.renderer = plainRenderer()
	return &testApp{App: a, sess: sess, trips: trips, turn: turn, out: out}
}

func sampleTrips() []models.ConversationSummary {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []models.ConversationSummary{
		{ID: "c-2", Title: "Trip to Ella", UpdatedAt: at.Add(time.Hour)},
		{ID: "c-1", Title: "", UpdatedAt: at},
	}
}

func plainRenderer() *Renderer {
	return &Renderer{
		user:      lipgloss.NewStyle(),
		assistant: lipgloss.NewStyle(),
		failure:   lipgloss.NewStyle(),
		muted:     lipgloss.NewStyle(),
	}
}

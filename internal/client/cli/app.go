package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/chat"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/client"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/config"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/conversations"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/session"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/storage"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/logging"
)

var errNotLoggedIn = errors.New("not logged in (use 'login' or 'signup')")

type sessionAPI interface {
	State() session.State
	User() *models.User
	Login(ctx context.Context, username, password string) error
	Signup(ctx context.Context, s models.Signup) error
	Logout(ctx context.Context)
	DeleteAccount(ctx context.Context) error
	TouchActivity()
	Subscribe(fn func(session.Event)) func()
}

type tripsAPI interface {
	List(ctx context.Context) ([]models.ConversationSummary, error)
	Cached() []models.ConversationSummary
}

type turnAPI interface {
	Submit(ctx context.Context, text string) (models.Message, error)
	NewConversation()
	Load(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Teardown()
	View() chat.View
}

type App struct {
	config   *config.Config
	session  sessionAPI
	trips    tripsAPI
	chat     turnAPI
	renderer *Renderer
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer

	unsubscribe func()
	closers     []func() error
}

// NewApp builds the client: local state, request gateway, session manager,
// synchronizer and orchestrator. A persisted token is restored before
// returning.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	logger, err := logging.NewDevelopmentZap(c.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	repos, err := storage.InitDatabase(ctx, c.StatePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.StatePath, "err", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, logger)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	mgr := session.NewManager(api, repos.Metadata,
		session.WithIdleTimeout(c.InactivityTimeout),
		session.WithLogger(logger),
	)
	api.UseCredentials(mgr)

	key, err := session.GroupingKey(ctx, repos.Metadata)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	convs := conversations.NewSynchronizer(api, key, logger)
	orch := chat.NewOrchestrator(convs, api, logger)

	a := newApp(c, mgr, convs, orch, in, out, logger)
	a.closers = append(a.closers, repos.Close, func() error {
		_ = logger.Sync()
		return nil
	})

	if err := mgr.Restore(ctx); err != nil && !errors.Is(err, session.ErrSessionExpired) {
		logger.Warn(ctx, "stored session not restored", "err", err)
	}
	return a, nil
}

func newApp(c *config.Config, s sessionAPI, t tripsAPI, ch turnAPI, in io.Reader, out io.Writer, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	a := &App{
		config:   c,
		session:  s,
		trips:    t,
		chat:     ch,
		renderer: NewRenderer(80),
		logger:   logger,
		reader:   bufio.NewReader(in),
		out:      &syncWriter{w: out},
	}
	a.unsubscribe = s.Subscribe(a.onSessionEvent)
	return a
}

// Close stops listening for session events, cancels any running turn and
// releases local state.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.chat.Teardown()

	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onSessionEvent(ev session.Event) {
	switch ev.Kind {
	case session.LoggedIn:
		a.logger.Debug(context.Background(), "session started", "user", ev.User.DisplayName())
	case session.LoggedOut:
		a.chat.Teardown()
		a.println(a.renderer.Muted(logoutNotice(ev.Reason)))
	}
}

func logoutNotice(r session.Reason) string {
	switch r {
	case session.ReasonUnauthorized:
		return "Your session has expired. Please log in again."
	case session.ReasonInactivity:
		return "Logged out after a period of inactivity."
	case session.ReasonIdentity:
		return "Your session could not be verified. Please log in again."
	case session.ReasonAccountDeleted:
		return "Account deleted."
	}
	return "Logged out."
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.Authenticated
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

// Touch counts as user activity for the inactivity deadline.
func (a *App) Touch() {
	a.session.TouchActivity()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// syncWriter serializes writes; session events arrive from timer goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Package session owns the authentication lifecycle of the client: token
// acquisition and persistence, identity resolution, forced logout on 401 and
// on inactivity.
//
// A Manager is created once per process and handed to every consumer that
// needs it. It implements client.Credentials, so the request gateway reads
// the token from it and reports 401s back to it.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/repositories/metadata"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/logging"
)

// DefaultIdleTimeout is the inactivity deadline after which the session is
// ended.
const DefaultIdleTimeout = 30 * time.Minute

const anyGeneration = ^uint64(0)

// AuthAPI is the part of the backend the manager talks to.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, s models.Signup) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
	DeleteMe(ctx context.Context) error
}

type stopper interface {
	Stop() bool
}

type Manager struct {
	api    AuthAPI
	store  metadata.Repository
	logger logging.Logger
	idle   time.Duration

	afterFunc func(time.Duration, func()) stopper
	now       func() time.Time

	mu           sync.Mutex
	state        State
	token        string
	user         *models.User
	gen          uint64
	lastActivity time.Time
	timer        stopper
	listeners    map[int]func(Event)
	nextListener int

	storeMu   sync.Mutex
	storedGen uint64
}

type Option func(*Manager)

// WithIdleTimeout overrides DefaultIdleTimeout. Zero disables the deadline.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) { m.idle = d }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func NewManager(api AuthAPI, store metadata.Repository, opts ...Option) *Manager {
	m := &Manager{
		api:    api,
		store:  store,
		logger: logging.Nop(),
		idle:   DefaultIdleTimeout,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		now:       time.Now,
		listeners: make(map[int]func(Event)),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns a copy of the resolved identity, or nil.
func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == Authenticated
}

// Subscribe registers fn for session events and returns a function that
// removes it. fn is called without internal locks held.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) emit(ev Event) {
	m.mu.Lock()
	fns := make([]func(Event), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Credential implements client.Credentials.
func (m *Manager) Credential() (string, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.gen
}

// Unauthorized implements client.Credentials. Only the first report for the
// current token generation has an effect.
func (m *Manager) Unauthorized(gen uint64) {
	m.expire(context.Background(), gen, ReasonUnauthorized)
}

// Restore loads a persisted token, if any, and resolves the identity behind
// it. A missing token leaves the manager Anonymous.
func (m *Manager) Restore(ctx context.Context) error {
	token, ok, err := m.store.Get(ctx, metadata.KeyAccessToken)
	if err != nil {
		return err
	}
	if !ok || token == "" {
		return nil
	}

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.token = token
	m.user = nil
	m.state = Authenticating
	m.mu.Unlock()

	m.storeMu.Lock()
	if gen > m.storedGen {
		m.storedGen = gen
	}
	m.storeMu.Unlock()

	if err := m.ResolveIdentity(ctx); err != nil {
		if ctx.Err() != nil {
			m.abandon(gen)
		}
		return err
	}
	return nil
}

// abandon drops a restored token whose identity check was cancelled. The
// stored copy is kept so the next start tries it again.
func (m *Manager) abandon(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen || m.state != Authenticating {
		return
	}
	m.gen++
	m.token = ""
	m.user = nil
	m.state = Anonymous
}

// Login exchanges credentials for a token, persists it and resolves the
// identity. A rejected exchange leaves any prior session untouched.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return &AuthError{Reason: FailureInvalidCredentials, Detail: "username and password are required"}
	}

	m.mu.Lock()
	if m.state == Authenticating {
		m.mu.Unlock()
		return ErrLoginInProgress
	}
	prev := m.state
	m.state = Authenticating
	m.mu.Unlock()

	token, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.mu.Lock()
		if m.state == Authenticating {
			m.state = prev
		}
		m.mu.Unlock()
		m.logger.Info(ctx, "login rejected", "username", username, "err", err)
		return loginError(err)
	}

	m.mu.Lock()
	m.stopTimerLocked()
	replaced := m.user != nil
	m.gen++
	gen := m.gen
	m.token = token
	m.user = nil
	m.state = Authenticating
	m.mu.Unlock()

	if replaced {
		m.logger.Info(ctx, "session replaced by new login")
		m.emit(Event{Kind: LoggedOut, Reason: ReasonLogout})
	}

	if err := m.persistToken(ctx, gen, token); err != nil {
		m.logger.Warn(ctx, "token not persisted", "err", err)
	}

	if err := m.ResolveIdentity(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			m.expire(context.WithoutCancel(ctx), gen, ReasonIdentity)
			return err
		}
		return ErrSessionExpired
	}
	return nil
}

// Signup registers an account. It never authenticates: the caller logs in
// explicitly afterwards.
func (m *Manager) Signup(ctx context.Context, s models.Signup) error {
	s.Username = strings.TrimSpace(s.Username)
	s.Email = strings.TrimSpace(s.Email)
	if s.Username == "" || s.Email == "" || s.Password == "" {
		return &AuthError{Reason: FailureValidation, Detail: "username, email and password are required"}
	}

	m.mu.Lock()
	prev := m.state
	if prev == Anonymous {
		m.state = Authenticating
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if prev == Anonymous && m.state == Authenticating {
			m.state = Anonymous
		}
		m.mu.Unlock()
	}()

	if _, err := m.api.Register(ctx, s); err != nil {
		m.logger.Info(ctx, "signup rejected", "username", s.Username, "err", err)
		return signupError(err)
	}
	m.logger.Info(ctx, "account created", "username", s.Username)
	return nil
}

// ResolveIdentity fetches the identity behind the current token. Any failure
// other than cancellation of ctx purges the session and returns
// ErrSessionExpired.
func (m *Manager) ResolveIdentity(ctx context.Context) error {
	m.mu.Lock()
	token, gen := m.token, m.gen
	m.mu.Unlock()
	if token == "" {
		return nil
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		m.logger.Info(ctx, "identity resolution failed", "err", err)
		m.expire(context.WithoutCancel(ctx), gen, ReasonIdentity)
		return ErrSessionExpired
	}

	m.mu.Lock()
	if m.gen != gen || m.token == "" {
		m.mu.Unlock()
		return ErrSessionExpired
	}
	wasAuthenticated := m.state == Authenticated
	m.user = user
	m.state = Authenticated
	if !wasAuthenticated {
		m.lastActivity = m.now()
		m.armTimerLocked(gen)
	}
	m.mu.Unlock()

	if !wasAuthenticated {
		m.logger.Info(ctx, "logged in", "user_id", user.ID)
		m.emit(Event{Kind: LoggedIn, User: m.User()})
	}
	return nil
}

// Logout ends the session. Calling it while anonymous is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	m.expire(ctx, anyGeneration, ReasonLogout)
}

// DeleteAccount removes the account server-side and then ends the session.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	if err := m.api.DeleteMe(ctx); err != nil {
		return err
	}
	m.expire(ctx, anyGeneration, ReasonAccountDeleted)
	return nil
}

// TouchActivity pushes the inactivity deadline back. It has no effect unless
// the session is Authenticated.
func (m *Manager) TouchActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Authenticated {
		return
	}
	m.lastActivity = m.now()
	m.armTimerLocked(m.gen)
}

func (m *Manager) armTimerLocked(gen uint64) {
	m.stopTimerLocked()
	if m.idle <= 0 {
		return
	}
	m.timer = m.afterFunc(m.idle, func() { m.idleElapsed(gen) })
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) idleElapsed(gen uint64) {
	m.mu.Lock()
	if m.gen != gen || m.state != Authenticated {
		m.mu.Unlock()
		return
	}
	// activity raced with the timer firing
	if remaining := m.idle - m.now().Sub(m.lastActivity); remaining > 0 {
		m.timer = m.afterFunc(remaining, func() { m.idleElapsed(gen) })
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.expire(context.Background(), gen, ReasonInactivity)
}

// expire purges the session if gen still names the current token. It
// reports whether this call did the purge.
func (m *Manager) expire(ctx context.Context, gen uint64, reason Reason) bool {
	m.mu.Lock()
	if m.token == "" || m.state == Expiring || (gen != anyGeneration && gen != m.gen) {
		m.mu.Unlock()
		return false
	}
	// a user is still present while a re-login exchange is in flight
	wasAuthenticated := m.state == Authenticated || m.user != nil
	m.state = Expiring
	m.gen++
	newGen := m.gen
	m.token = ""
	m.user = nil
	m.stopTimerLocked()
	m.mu.Unlock()

	if err := m.persistToken(ctx, newGen, ""); err != nil {
		m.logger.Warn(ctx, "persisted token not cleared", "err", err)
	}

	m.mu.Lock()
	if m.state == Expiring && m.gen == newGen {
		m.state = Anonymous
	}
	m.mu.Unlock()

	m.logger.Info(ctx, "session ended", "reason", string(reason))
	if wasAuthenticated {
		m.emit(Event{Kind: LoggedOut, Reason: reason})
	}
	return true
}

// persistToken writes token for generation gen unless a newer generation has
// already been written. An empty token deletes the record.
func (m *Manager) persistToken(ctx context.Context, gen uint64, token string) error {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()
	if gen < m.storedGen {
		return nil
	}
	m.storedGen = gen
	if token == "" {
		return m.store.Delete(ctx, metadata.KeyAccessToken)
	}
	return m.store.Set(ctx, metadata.KeyAccessToken, token)
}

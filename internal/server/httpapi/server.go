// Package httpapi exposes the services over the HTTP/JSON contract the
// client speaks.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/logging"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/models"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/services"
)

const maxBodyBytes = 1 << 20

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Delete(ctx context.Context, userID string) error
}

type ConversationService interface {
	Create(ctx context.Context, userID, title, sessionID string) (*models.Conversation, error)
	List(ctx context.Context, userID string) ([]models.Conversation, error)
	Get(ctx context.Context, userID, id string) (*models.Conversation, error)
	Append(ctx context.Context, userID, id string, m models.Message) error
	UpdateTitle(ctx context.Context, userID, id, title string) (*models.Conversation, error)
	Delete(ctx context.Context, userID, id string) error
}

type Recommender interface {
	Query(ctx context.Context, q services.QueryRequest) (*services.QueryResponse, error)
}

type Server struct {
	address         string
	logger          logging.Logger
	users           UserService
	conversations   ConversationService
	recommender     Recommender
	allowedOrigin   string
	shutdownTimeout time.Duration
}

type Option func(*Server)

// WithAllowedOrigin enables CORS for origin. "*" allows any origin.
func WithAllowedOrigin(origin string) Option {
	return func(s *Server) { s.allowedOrigin = origin }
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

func NewServer(address string, l logging.Logger, us UserService, cs ConversationService, rs Recommender, opts ...Option) *Server {
	s := &Server{
		address:         address,
		logger:          l.With("module", "http_server"),
		users:           us,
		conversations:   cs,
		recommender:     rs,
		shutdownTimeout: 10 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the full middleware chain wrapped around the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)

	mux.HandleFunc("POST /api/auth/token", s.token)
	mux.HandleFunc("POST /api/auth/register", s.register)
	mux.Handle("GET /api/auth/me", s.authenticated(s.me))
	mux.Handle("DELETE /api/auth/me", s.authenticated(s.deleteMe))

	mux.Handle("GET /api/conversations/list", s.authenticated(s.listConversations))
	mux.Handle("POST /api/conversations/{$}", s.authenticated(s.createConversation))
	mux.Handle("POST /api/conversations/append", s.authenticated(s.appendMessage))
	mux.Handle("GET /api/conversations/{id}", s.authenticated(s.getConversation))
	mux.Handle("DELETE /api/conversations/{id}", s.authenticated(s.deleteConversation))
	mux.Handle("PATCH /api/conversations/{id}/title", s.authenticated(s.updateTitle))

	mux.Handle("POST /api/query", s.authenticated(s.query))
	mux.Handle("POST /api/chat", s.authenticated(s.query))

	return s.recoverer(s.accessLog(s.cors(mux)))
}

func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "graceful shutdown failed", "err", err)
			_ = srv.Close()
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/logging"
)

const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL   *url.URL
	http      *http.Client
	transport *authTransport
	logger    logging.Logger
}

// NewHTTPClient builds a gateway for the backend at baseURL. A zero timeout
// disables the per-request deadline.
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	t := &authTransport{base: http.DefaultTransport}
	return &HTTPClient{
		baseURL:   u,
		http:      &http.Client{Transport: t, Timeout: timeout},
		transport: t,
		logger:    logger,
	}, nil
}

// UseCredentials installs the token source. Until it is called requests are
// sent unauthenticated.
func (c *HTTPClient) UseCredentials(creds Credentials) {
	c.transport.setSource(creds)
}

func (c *HTTPClient) endpoint(path string) string {
	return c.baseURL.String() + path
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *HTTPClient) send(req *http.Request, out any) error {
	ctx := req.Context()
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn(ctx, "request failed", "method", req.Method, "path", req.URL.Path, "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request done",
		"method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	se := &StatusError{Code: resp.StatusCode}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	if err := json.Unmarshal(b, &eb); err == nil && eb.Detail != nil {
		switch d := eb.Detail.(type) {
		case string:
			se.Detail = d
		default:
			// validation errors arrive as structured detail
			raw, _ := json.Marshal(d)
			se.Detail = string(raw)
		}
	}
	return se
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	ctx = credentialRequest(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/auth/token"),
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var tr tokenResponse
	if err := c.send(req, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", errors.New("token endpoint returned no access_token")
	}
	return tr.AccessToken, nil
}

func (c *HTTPClient) Register(ctx context.Context, s models.Signup) (*models.User, error) {
	var u models.User
	if err := c.do(credentialRequest(ctx), http.MethodPost, "/api/auth/register", s, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) DeleteMe(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/auth/me", nil, nil)
}

func (c *HTTPClient) ListConversations(ctx context.Context) ([]models.ConversationSummary, error) {
	var out []models.ConversationSummary
	if err := c.do(ctx, http.MethodGet, "/api/conversations/list", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.ConversationSummary{}
	}
	return out, nil
}

func (c *HTTPClient) CreateConversation(ctx context.Context, title, sessionID string) (*models.Conversation, error) {
	var conv models.Conversation
	body := createConversationRequest{Title: title, SessionID: sessionID}
	if err := c.do(ctx, http.MethodPost, "/api/conversations/", body, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *HTTPClient) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := c.do(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(id), nil, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *HTTPClient) UpdateTitle(ctx context.Context, id, title string) (*models.Conversation, error) {
	var conv models.Conversation
	path := "/api/conversations/" + url.PathEscape(id) + "/title"
	if err := c.do(ctx, http.MethodPatch, path, updateTitleRequest{Title: title}, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *HTTPClient) DeleteConversation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/conversations/"+url.PathEscape(id), nil, nil)
}

// AppendMessage persists msg as is. Role translation is the caller's job.
func (c *HTTPClient) AppendMessage(ctx context.Context, conversationID string, msg models.Message) error {
	body := appendMessageRequest{
		ConversationID: conversationID,
		Message: wireMessage{
			Role:      string(msg.Role),
			Text:      msg.Text,
			Metadata:  msg.State,
			Timestamp: msg.Timestamp.UTC(),
		},
	}
	return c.do(ctx, http.MethodPost, "/api/conversations/append", body, nil)
}

func (c *HTTPClient) Query(ctx context.Context, query string, previous models.TurnState) (*QueryResult, error) {
	var res QueryResult
	body := queryRequest{Query: query, PreviousState: previous}
	if err := c.do(ctx, http.MethodPost, "/api/query", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

var _ Client = (*HTTPClient)(nil)

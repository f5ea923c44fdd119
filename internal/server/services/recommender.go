package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/common"
)

// QueryRequest is one turn sent to the recommendation engine. PreviousState
// is the opaque state returned by the engine for the prior turn.
type QueryRequest struct {
	Query         string          `json:"query"`
	PreviousState json.RawMessage `json:"previous_state,omitempty"`
}

type QueryResponse struct {
	Response     string          `json:"response"`
	CurrentState json.RawMessage `json:"current_state,omitempty"`
}

// RecommenderService relays turns to an external engine.
type RecommenderService struct {
	url    string
	client *http.Client
}

func NewRecommenderService(url string, timeout time.Duration) *RecommenderService {
	return &RecommenderService{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: timeout},
	}
}

func (s *RecommenderService) Configured() bool {
	return s.url != ""
}

func (s *RecommenderService) Query(ctx context.Context, q QueryRequest) (*QueryResponse, error) {
	if !s.Configured() {
		return nil, common.ErrorNotConfigured
	}
	if strings.TrimSpace(q.Query) == "" {
		return nil, validationError("query is required")
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("%w: status %d", common.ErrorUpstream, resp.StatusCode)
	}

	var out QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: bad response: %v", common.ErrorUpstream, err)
	}
	return &out, nil
}

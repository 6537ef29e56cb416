// Package engagement fetches per-post engagement metrics from the external
// analytics feed. The feed is advisory: callers treat any failure as an
// absent value, never as a blocking error.
package engagement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/Utkarsh-OTS/smm/pkg/logging"
)

// Config configures the feed client
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	Logger     logging.Logger
}

// Client is an HTTP client for the engagement feed with retry + backoff.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	executor   failsafe.Executor[*http.Response]
	logger     logging.Logger
}

// NewClient creates a new engagement feed client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	retry := retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(100*time.Millisecond, 5*time.Second).
		WithMaxRetries(maxRetries).
		WithJitterFactor(0.1).
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && (resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests)
		}).
		Build()

	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		executor:   failsafe.With(retry),
		logger:     cfg.Logger,
	}
}

type engagementResponse struct {
	PostID     string  `json:"post_id"`
	Engagement float64 `json:"engagement"`
}

// FetchEngagement returns the engagement value for a published post. The
// second return value is false when the feed has no data for the post.
func (c *Client) FetchEngagement(ctx context.Context, postID string) (float64, bool, error) {
	url := fmt.Sprintf("%s/v1/engagement/%s", c.baseURL, postID)

	resp, err := c.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		return c.httpClient.Do(req)
	})
	if err != nil {
		return 0, false, fmt.Errorf("engagement feed request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("engagement feed returned status %d", resp.StatusCode)
	}

	var body engagementResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, false, fmt.Errorf("failed to decode engagement response: %w", err)
	}

	return body.Engagement, true, nil
}

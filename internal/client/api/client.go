// Package api implements the HTTP client for the furnboard backend. All
// responses follow the envelope {success, data, error}; failures surface as
// common.ErrUnavailable (network) or common.ErrAPIError (backend-rejected).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mkhitrov/furnboard/internal/client/models"
	"github.com/mkhitrov/furnboard/internal/common"
	"github.com/mkhitrov/furnboard/internal/logging"
)

// DefaultPageSize is the "treated as complete" page size used when listing
// collections for revalidation and reconciliation.
const DefaultPageSize = 1000

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	pageSize   int
	log        logging.Logger
}

// New returns a Client rooted at baseURL (e.g. "http://127.0.0.1:8080/api").
// pageSize <= 0 falls back to DefaultPageSize.
func New(baseURL string, pageSize int, log logging.Logger) *Client {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		pageSize:   pageSize,
		log:        log,
	}
}

// do issues one request and unwraps the response envelope, returning the
// raw data payload.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", common.ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %v", common.ErrUnavailable, method, path, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: %s %s: invalid response body", common.ErrAPIError, method, path)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		reason := env.Error
		if reason == "" {
			reason = resp.Status
		}
		return nil, fmt.Errorf("%w: %s %s: %s", common.ErrAPIError, method, path, reason)
	}

	return env.Data, nil
}

// ListNotifications fetches the authoritative notification feed.
func (c *Client) ListNotifications(ctx context.Context) ([]*models.Notification, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("notifications?limit=%d", c.pageSize), nil)
	if err != nil {
		return nil, err
	}
	var out []*models.Notification
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return out, nil
}

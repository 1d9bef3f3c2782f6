package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mkhitrov/furnboard/internal/common"
)

// healthBody is the backend's self-reported status. The backend flags its
// own database dependency, so reachability alone is not health.
type healthBody struct {
	Success  bool   `json:"success"`
	Database string `json:"database"`
}

// Health probes the backend. It returns nil when healthy,
// common.ErrBackendDegraded when the backend is reachable but reports its
// own dependencies as down, and common.ErrUnavailable on network-level
// failure. The caller bounds the probe with a context timeout.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: health probe: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: health probe: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health probe: %s", common.ErrUnavailable, resp.Status)
	}

	var body healthBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("%w: health probe: invalid body", common.ErrBackendDegraded)
	}
	if !body.Success || body.Database == "down" {
		return fmt.Errorf("%w: database %q", common.ErrBackendDegraded, body.Database)
	}
	return nil
}

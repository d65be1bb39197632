package makeedu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"textbook/internal/reconcile"
)

// Client talks to the textbook API's sync endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Sync submits one scraped row for reconciliation.
func (c *Client) Sync(ctx context.Context, row Row) (reconcile.SyncResult, error) {
	payload, err := json.Marshal(reconcile.Input{
		StudentName: row.StudentName,
		BookName:    row.BookName,
		IsPaid:      row.IsPaid,
	})
	if err != nil {
		return reconcile.SyncResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/sync", bytes.NewReader(payload))
	if err != nil {
		return reconcile.SyncResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return reconcile.SyncResult{}, fmt.Errorf("sync request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return reconcile.SyncResult{}, fmt.Errorf("sync failed (%d): %s", resp.StatusCode, string(body))
	}

	var result reconcile.SyncResult
	if err := json.Unmarshal(body, &result); err != nil {
		return reconcile.SyncResult{}, fmt.Errorf("decode sync response failed: %w", err)
	}
	return result, nil
}

// Health checks whether the API is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("api unhealthy: %d", resp.StatusCode)
	}
	return nil
}

// Package automation is a REST client for the external workflow-automation
// backend (n8n-compatible API surface).
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Workflow struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Active    bool            `json:"active"`
	Nodes     json.RawMessage `json:"nodes,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt,omitempty"`
}

type Snapshot struct {
	ID         string    `json:"id"`
	WorkflowID string    `json:"workflow_id"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) List(ctx context.Context) ([]Workflow, error) {
	var out struct {
		Data []Workflow `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/workflows", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Workflow, error) {
	var out Workflow
	if err := c.do(ctx, http.MethodGet, "/workflows/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, wf *Workflow) (*Workflow, error) {
	var out Workflow
	if err := c.do(ctx, http.MethodPost, "/workflows", wf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, wf *Workflow) (*Workflow, error) {
	var out Workflow
	if err := c.do(ctx, http.MethodPut, "/workflows/"+wf.ID, wf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/workflows/"+id, nil, nil)
}

func (c *Client) Activate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/workflows/"+id+"/activate", nil, nil)
}

func (c *Client) Deactivate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/workflows/"+id+"/deactivate", nil, nil)
}

// TakeSnapshot records a version snapshot of the workflow document.
func (c *Client) TakeSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	var out Snapshot
	if err := c.do(ctx, http.MethodPost, "/workflows/"+id+"/snapshot", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BulkActivate activates each workflow in turn, stopping at the first error.
func (c *Client) BulkActivate(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := c.Activate(ctx, id); err != nil {
			return fmt.Errorf("activate %s: %w", id, err)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+"/api/v1"+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("X-N8N-API-KEY", c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("automation API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Item is one catalog entry as served by the core API dropdown endpoints.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client fetches the read-only dropdown catalogs from the core API. These
// endpoints are public; no bearer token is attached.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client against the core API base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Courses returns the course catalog.
func (c *Client) Courses(ctx context.Context) ([]Item, error) {
	return c.list(ctx, "/courses")
}

// TechnicalSkills returns the technical-skill catalog.
func (c *Client) TechnicalSkills(ctx context.Context) ([]Item, error) {
	return c.list(ctx, "/technical-skills")
}

// SoftSkills returns the soft-skill catalog.
func (c *Client) SoftSkills(ctx context.Context) ([]Item, error) {
	return c.list(ctx, "/soft-skills")
}

func (c *Client) list(ctx context.Context, path string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return items, nil
}

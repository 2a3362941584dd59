package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// UpstreamError is a rejection from the registration endpoint.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("registration rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("registration rejected with status %d: %s", e.StatusCode, e.Message)
}

// RegisterResponse is the core API's acknowledgment of a registration.
type RegisterResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client posts assembled registrations to the core API. The timeout bounds
// the whole exchange so a hung upstream cannot pin a session's in-flight
// flag forever.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a registration client against the core API base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Register performs the multipart POST. No retries and no idempotency key;
// the caller surfaces failures to the registrant, who may resubmit.
func (c *Client) Register(ctx context.Context, body *bytes.Buffer, contentType string) (*RegisterResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register-alumni-dummy", body)
	if err != nil {
		return nil, fmt.Errorf("create registration request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit registration: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read registration response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstream := &UpstreamError{StatusCode: resp.StatusCode}
		var parsed RegisterResponse
		if json.Unmarshal(raw, &parsed) == nil {
			upstream.Message = parsed.Message
		}
		c.logger.Warn("registration rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("message", upstream.Message))
		return nil, upstream
	}

	var parsed RegisterResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("unexpected registration response format: %w", err)
	}
	return &parsed, nil
}

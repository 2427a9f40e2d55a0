// ABOUTME: Watson Assistant v1 workspace message client
// ABOUTME: Implements the dialog Client interface over the HTTP API

package dialog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// defaultTimeout bounds one dialog turn against the engine.
const defaultTimeout = 30 * time.Second

// WatsonConfig holds the credentials and workspace for the Watson Assistant
// (Conversation) v1 API.
type WatsonConfig struct {
	URL         string // service base URL, e.g. https://gateway.watsonplatform.net/conversation/api
	Username    string
	Password    string
	WorkspaceID string
	Version     string // API version date, e.g. 2017-04-21
}

// WatsonClient implements Client against the Watson Assistant v1 workspace
// message endpoint.
type WatsonClient struct {
	config WatsonConfig
	http   *http.Client
}

// NewWatsonClient creates a dialog client for the configured workspace.
func NewWatsonClient(cfg WatsonConfig) (*WatsonClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("watson url is required")
	}
	if cfg.WorkspaceID == "" {
		return nil, fmt.Errorf("watson workspace id is required")
	}
	if cfg.Version == "" {
		cfg.Version = "2017-04-21"
	}

	return &WatsonClient{
		config: cfg,
		http:   &http.Client{Timeout: defaultTimeout},
	}, nil
}

// messageRequest is the v1 message API request body.
type messageRequest struct {
	Input   messageInput    `json:"input"`
	Context json.RawMessage `json:"context,omitempty"`
}

type messageInput struct {
	Text string `json:"text"`
}

// Message sends one dialog turn to the workspace message endpoint.
func (c *WatsonClient) Message(ctx context.Context, text string, dialogContext json.RawMessage) (*Response, error) {
	endpoint := fmt.Sprintf("%s/v1/workspaces/%s/message?version=%s",
		c.config.URL, url.PathEscape(c.config.WorkspaceID), url.QueryEscape(c.config.Version))

	body, err := json.Marshal(messageRequest{
		Input:   messageInput{Text: text},
		Context: dialogContext,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding message request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.Username, c.config.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading message response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("dialog engine returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed Response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decoding message response: %w", err)
	}
	parsed.Raw = raw

	return &parsed, nil
}

// truncate shortens a string to the given max rune count, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/strand"
)

// Config holds configuration for creating a backend client.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string

	// HTTPClient is the underlying HTTP client. If nil, http.DefaultClient
	// is used. Streaming requests must not have a client-level timeout.
	HTTPClient *http.Client
}

// Client is an HTTP client for the conversation backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a backend client with the given configuration.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}
}

// ChatRequest is the body of a streaming chat submission. Field names
// follow the AG-UI RunAgentInput wire convention the backend reads.
type ChatRequest struct {
	ThreadID string           `json:"threadId"`
	RunID    string           `json:"runId"`
	Messages []events.Message `json:"messages"`
	State    any              `json:"state,omitempty"`
}

// Envelope is one framed protocol event line from the chat stream, or a
// terminal stream error. After an Envelope with Err set, the channel is
// closed.
type Envelope struct {
	Data string
	Err  error
}

// Chat submits a prompt cycle and returns a channel of framed event
// envelopes. The channel is closed when the stream or ctx ends.
// Establishing the connection fails with *strand.NetworkError;
// mid-stream transport failures arrive as a final Envelope with Err
// set. Callers that stop reading before the channel closes must cancel
// ctx to release the reader and the underlying connection.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (<-chan Envelope, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &strand.NetworkError{Op: "POST /chat/", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &strand.NetworkError{Op: "POST /chat/", Cause: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	ch := make(chan Envelope)
	go c.stream(ctx, resp.Body, ch)
	return ch, nil
}

// Conversations returns the ordered list of known thread identifiers.
func (c *Client) Conversations(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.getJSON(ctx, "/conversations/", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Snapshot fetches the canonical snapshot envelope for a thread: one
// framed protocol event containing a messages snapshot.
func (c *Client) Snapshot(ctx context.Context, threadID string) (string, error) {
	body, err := json.Marshal(map[string]string{"conversation_id": threadID})
	if err != nil {
		return "", fmt.Errorf("encoding rehydrate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rehydrate/", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building rehydrate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &strand.NetworkError{Op: "POST /rehydrate/", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &strand.NetworkError{Op: "POST /rehydrate/", Cause: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &strand.NetworkError{Op: "POST /rehydrate/", Cause: err}
	}
	return string(data), nil
}

// DisplayRecord is one entry of the persisted display log: a plain
// role/content record, not a framed envelope. For role "event" the
// content is a structured payload; for text roles it is a JSON string.
type DisplayRecord struct {
	ID         string          `json:"id"`
	Role       string          `json:"role"`
	Content    json.RawMessage `json:"content"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
}

// DisplayLog fetches the ordered display log for a thread.
func (c *Client) DisplayLog(ctx context.Context, threadID string) ([]DisplayRecord, error) {
	var records []DisplayRecord
	query := url.Values{"conversation_id": {threadID}}
	if err := c.getJSON(ctx, "/display-messages/", query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// RawMessages fetches the raw persisted canonical log for a thread.
// Read-only, for inspection and debugging; it has no effect on client
// state.
func (c *Client) RawMessages(ctx context.Context, threadID string) (json.RawMessage, error) {
	var raw json.RawMessage
	query := url.Values{"conversation_id": {threadID}}
	if err := c.getJSON(ctx, "/messages/", query, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// getJSON performs a GET request and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &strand.NetworkError{Op: "GET " + path, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &strand.NetworkError{Op: "GET " + path, Cause: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &strand.NetworkError{Op: "GET " + path, Cause: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

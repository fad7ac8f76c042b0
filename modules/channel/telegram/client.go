package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes bounds API response reads.
const maxResponseBytes = 10 << 20 // 10 MiB

// supportedOps maps the operations this channel is allowed to perform to
// their Bot API method names. Anything outside this set is rejected before
// a request is built.
var supportedOps = map[string]string{
	"delete_webhook": "deleteWebhook",
	"get_updates":    "getUpdates",
	"send_message":   "sendMessage",
	"set_webhook":    "setWebhook",
}

// Client is a thin HTTP wrapper around the Telegram Bot API.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Telegram Bot API client.
func NewClient(token, baseURL string) *Client {
	return &Client{
		token:   token,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// endpoint builds the request URL for an operation. Unsupported operations
// fail here, before any network traffic.
func (c *Client) endpoint(op string) (string, error) {
	method, ok := supportedOps[op]
	if !ok {
		return "", fmt.Errorf("telegram: unsupported operation %q", op)
	}
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method), nil
}

// call sends a JSON POST request for the given operation and decodes the
// response envelope. A response with ok=false is returned as *APIError.
func call[T any](ctx context.Context, c *Client, op string, payload any) (*T, error) {
	url, err := c.endpoint(op)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("telegram: marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("telegram: create %s request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Wrap with the operation name rather than the URL so error
		// messages never carry the token.
		return nil, fmt.Errorf("telegram: %s request failed: %w", op, err)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("telegram: read %s response: %w", op, err)
	}

	var apiResp APIResponse[T]
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("telegram: decode %s response: %w", op, err)
	}

	if !apiResp.OK {
		apiErr := &APIError{
			Code:        apiResp.ErrorCode,
			Description: apiResp.Description,
		}
		if apiResp.Parameters != nil {
			apiErr.RetryAfter = apiResp.Parameters.RetryAfter
		}
		return nil, apiErr
	}

	return &apiResp.Result, nil
}

// GetUpdatesRequest is the request body for the get_updates operation.
// A zero Offset is omitted, so the first poll of a session carries no
// offset and the API replays unacknowledged updates.
type GetUpdatesRequest struct {
	Offset  int `json:"offset,omitempty"`
	Limit   int `json:"limit,omitempty"`
	Timeout int `json:"timeout,omitempty"`
}

// SetWebhookRequest is the request body for the set_webhook operation.
type SetWebhookRequest struct {
	URL         string `json:"url"`
	SecretToken string `json:"secret_token,omitempty"`
}

// SendMessageRequest is the request body for the send_message operation.
type SendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// GetUpdates fetches incoming updates using long polling.
func (c *Client) GetUpdates(ctx context.Context, req GetUpdatesRequest) ([]Update, error) {
	result, err := call[[]Update](ctx, c, "get_updates", req)
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// SetWebhook configures the webhook URL for receiving updates.
func (c *Client) SetWebhook(ctx context.Context, req SetWebhookRequest) error {
	_, err := call[bool](ctx, c, "set_webhook", req)
	return err
}

// DeleteWebhook removes the current webhook integration.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	_, err := call[bool](ctx, c, "delete_webhook", nil)
	return err
}

// SendMessage sends a text message to the specified chat.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	return call[Message](ctx, c, "send_message", req)
}

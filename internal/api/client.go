package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoToken is the client-side guard rejection: an authenticated-only call
// was attempted with no access token present. The request never reaches the
// network.
var ErrNoToken = errors.New("no access token")

// Error is the uniform translation of a non-2xx backend response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %s (%d): %s", e.Code, e.Status, e.Message)
}

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// Client is the typed REST client for the board backend. All calls attach
// `Authorization: Bearer <token>` when a token is present; calls marked as
// authenticated-only fail with ErrNoToken before hitting the network.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, authRequired bool) error {
	token := c.tokens.Token()
	if authRequired && token == "" {
		return ErrNoToken
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return translateError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doUnwrapped decodes a response that may or may not be wrapped in a
// `{"data": ...}` envelope, tolerating both backend variants.
func (c *Client) doUnwrapped(ctx context.Context, method, path string, body, out interface{}, authRequired bool) error {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, body, &raw, authRequired); err != nil {
		return err
	}
	return json.Unmarshal(unwrapData(raw), out)
}

func unwrapData(raw json.RawMessage) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return raw
}

func translateError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	data, err := io.ReadAll(resp.Body)
	if err == nil && strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		json.Unmarshal(data, apiErr)
	} else if err == nil {
		apiErr.Message = strings.TrimSpace(string(data))
	}

	if apiErr.Code == "" {
		apiErr.Code = "UNKNOWN_ERROR"
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return apiErr
}

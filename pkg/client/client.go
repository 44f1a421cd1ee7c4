// Package client is a Go SDK for the social graph API. Besides the plain
// HTTP calls it carries the app-shell logic a signed-in client runs:
// a one-shot user sync, the current-profile loader and the navigation gate.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TokenSource returns the identity provider's current session token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// APIError is any non-2xx answer. Message is the server's human-readable message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type User struct {
	ID             string    `json:"id"`
	ExternalID     string    `json:"external_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	ProfilePicture string    `json:"profile_picture"`
	Following      []string  `json:"following"`
	Followers      []string  `json:"followers"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type SyncResult struct {
	User    User `json:"user"`
	Created bool `json:"created"`
}

type FollowResult struct {
	Following bool   `json:"following"`
	Message   string `json:"message"`
}

// ProfileUpdate mirrors the server's allow-list; nil fields are left unchanged.
type ProfileUpdate struct {
	Username       *string `json:"username,omitempty"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

type Notification struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the API under BaseURL (including the /api prefix).
type Client struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
}

func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Tokens:     tokens,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// do sends one request and decodes data into out. It never retries.
func (c *Client) do(ctx context.Context, method, path string, body any, authenticated bool, out any) (int, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		if c.Tokens == nil {
			return 0, errors.New("client: no token source")
		}
		token, err := c.Tokens.Token(ctx)
		if err != nil {
			return 0, fmt.Errorf("client: get token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = res.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		if res.StatusCode >= 300 {
			return res.StatusCode, &APIError{Status: res.StatusCode, Message: http.StatusText(res.StatusCode)}
		}
		return res.StatusCode, fmt.Errorf("client: decode response: %w", err)
	}
	if res.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return res.StatusCode, &APIError{Status: res.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return res.StatusCode, fmt.Errorf("client: decode data: %w", err)
		}
	}
	return res.StatusCode, nil
}

// Sync materializes the caller's local user. Created is true on first sync.
func (c *Client) Sync(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	_, err := c.do(ctx, http.MethodPost, "/users/sync", nil, true, &res)
	return res, err
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if _, err := c.do(ctx, http.MethodGet, "/users/me", nil, true, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if _, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil, false, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateCurrent(ctx context.Context, patch ProfileUpdate) (*User, error) {
	var u User
	if _, err := c.do(ctx, http.MethodPatch, "/users/me", patch, true, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ToggleFollow flips the follow edge to the user with local id targetID.
// It is not idempotent, so callers should not retry it blindly.
func (c *Client) ToggleFollow(ctx context.Context, targetID string) (FollowResult, error) {
	var res FollowResult
	_, err := c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(targetID)+"/follow", nil, true, &res)
	return res, err
}

func (c *Client) Notifications(ctx context.Context, limit int) ([]Notification, error) {
	path := "/notifications"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var list []Notification
	if _, err := c.do(ctx, http.MethodGet, path, nil, true, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPatch, "/notifications/"+url.PathEscape(id)+"/read", nil, true, nil)
	return err
}

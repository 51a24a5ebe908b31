// Package api is the terminal client's view of the Name My Child HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NameMyChild/internal/models"
	"NameMyChild/internal/names"
)

var ErrNotSignedIn = errors.New("not signed in")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Op      string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Code, http.StatusText(e.Code))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SessionEventsURL is the websocket URL of /ws/session with the given query.
func (c *Client) SessionEventsURL(query url.Values) string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws/session?" + query.Encode()
}

// RequestMagicLink sends a sign-in link to email. codeChallenge binds the
// link to the caller, who must later present the matching verifier.
func (c *Client) RequestMagicLink(ctx context.Context, email, codeChallenge string) (string, error) {
	var resp struct {
		RequestID string `json:"request_id"`
	}
	body := map[string]string{"email": email, "code_challenge": codeChallenge}
	if err := c.do(ctx, "request magic link", http.MethodPost, "/auth/magic-link", "", body, &resp); err != nil {
		return "", err
	}
	return resp.RequestID, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, "login", http.MethodPost, "/login", "", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) Profile(ctx context.Context, token string) (models.User, error) {
	var user models.User
	err := c.do(ctx, "profile", http.MethodGet, "/api/profile", token, nil, &user)
	return user, err
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, "sign out", http.MethodPost, "/auth/signout", token, nil, nil)
}

func (c *Client) GetSavedNames(ctx context.Context, token string) ([]models.SavedName, error) {
	saved := make([]models.SavedName, 0)
	if err := c.do(ctx, "get saved names", http.MethodGet, "/api/getSavedNames", token, nil, &saved); err != nil {
		return nil, err
	}
	if saved == nil {
		saved = make([]models.SavedName, 0)
	}
	return saved, nil
}

func (c *Client) SaveName(ctx context.Context, token, name string) error {
	return c.do(ctx, "save name", http.MethodPost, "/api/saveName", token, map[string]string{"name": name}, nil)
}

// GenerateNames returns an empty, non-nil slice when the reply has no names.
func (c *Client) GenerateNames(ctx context.Context, token, prompt string) ([]string, error) {
	var resp struct {
		Names []string `json:"names"`
	}
	body := map[string]string{"prompt": prompt, "response_type": names.ResponseTypeJSON}
	if err := c.do(ctx, "generate names", http.MethodPost, "/api/generateNames", token, body, &resp); err != nil {
		return nil, err
	}
	if resp.Names == nil {
		return []string{}, nil
	}
	return resp.Names, nil
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &StatusError{Op: op, Code: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

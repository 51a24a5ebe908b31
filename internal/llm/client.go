package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"NameMyChild/internal/names"
)

// GenerateRequest is the body the LLM server expects on /generate.
type GenerateRequest struct {
	Prompt       string  `json:"prompt"`
	ResponseType string  `json:"response_type"`
	Temperature  float64 `json:"temperature"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

// Client talks to a self-hosted LLM server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ names.Service = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(GenerateRequest{
		Prompt:       prompt,
		ResponseType: names.ResponseTypeJSON,
		Temperature:  0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("LLM Server generate failed with status: " + resp.Status)
	}

	var genResp GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", err
	}
	return genResp.Text, nil
}

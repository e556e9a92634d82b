// Package llm implements the outbound chat-completions client used to
// generate answers. The API shape is the common {model, messages,
// temperature} JSON contract with a bearer credential.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"supportrag/internal/domain"
)

// Config configures the chat-completions client.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client calls a chat-completions endpoint. One attempt per query, no
// retries; timeouts surface as errors for the caller to turn into an
// escalated answer.
type Client struct {
	baseURL     string
	model       string
	temperature float64
	httpc       *http.Client
}

var _ domain.Generator = (*Client)(nil)

// NewClient creates a chat-completions client from the configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.perplexity.ai"
	}
	if cfg.Model == "" {
		cfg.Model = "sonar"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpc:       &http.Client{Timeout: t},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a two-message prompt and returns the generated text. The
// apiKey is used for this call only and never stored on the client.
func (c *Client) Complete(ctx context.Context, apiKey, system, user string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion api: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion api returned %s: %s", resp.Status, payload)
	}
	var out chatResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("completion api returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

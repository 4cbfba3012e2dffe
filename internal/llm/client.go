// Package llm is a minimal Anthropic messages client. It performs a single
// request per call; callers wrap it in their own retry policy.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"creator-scout-go/internal/retry"
)

const (
	defaultEndpoint = "https://api.anthropic.com/v1/messages"
	defaultModel    = "claude-sonnet-4-20250514"
	apiVersion      = "2023-06-01"
)

// Request is one completion call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Completer produces free-form text for a prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client talks to the messages endpoint.
type Client struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

// NewClient builds a client with the production endpoint and default model.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		Model:      defaultModel,
		Endpoint:   defaultEndpoint,
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type wireRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system,omitempty"`
	Messages    []wireMessage `json:"messages"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt and returns the concatenated text blocks of the
// reply. Client errors (4xx except 429) come back marked permanent so a
// wrapping retry policy stops immediately.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(wireRequest{
		Model:       c.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    []wireMessage{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", retry.Permanent(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.APIKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return "", fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var wire wireResponse
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &wire) == nil && wire.Error != nil {
			msg = wire.Error.Message
		}
		err := fmt.Errorf("llm status %d: %s", resp.StatusCode, msg)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", retry.Permanent(err)
		}
		return "", err
	}

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return "", fmt.Errorf("decode llm response: %w", err)
	}

	var sb strings.Builder
	for _, block := range wire.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("llm response has no text content")
	}
	return sb.String(), nil
}

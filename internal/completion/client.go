package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
)

const (
	temperature = 0.7
	maxTokens   = 1024
)

// Config is fixed at construction; the client holds no mutable state.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// UpstreamError covers transport failures, non-2xx statuses, and malformed
// response bodies. Callers surface it to the user; nothing retries.
type UpstreamError struct {
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion request failed: %s", e.Detail)
}

type Client struct {
	client *resty.Client
	model  string
}

func NewClient(cfg Config) *Client {
	return &Client{
		client: resty.New().SetBaseURL(cfg.BaseURL).SetAuthToken(cfg.APIKey),
		model:  cfg.Model,
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
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one single-turn chat request and returns the first choice's
// message content.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/chat/completions")

	if err != nil {
		slog.Error("unable to reach completion endpoint", "error", err)
		return "", &UpstreamError{Detail: err.Error()}
	}

	if !res.IsSuccess() {
		slog.Error("completion endpoint returned error", "status_code", res.StatusCode(), "body", res.String())
		return "", &UpstreamError{Detail: fmt.Sprintf("status %d", res.StatusCode())}
	}

	var parsed chatResponse
	if err := json.Unmarshal(res.Body(), &parsed); err != nil {
		slog.Error("error parsing completion response", "error", err)
		return "", &UpstreamError{Detail: "malformed response body"}
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		return "", &UpstreamError{Detail: "response missing message content"}
	}

	return *parsed.Choices[0].Message.Content, nil
}

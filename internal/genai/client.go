package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("generative client is not configured")

// Client produces free-form completions. Callers own their prompts and
// must treat every response as untrusted text to parse.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ChatClient talks to an OpenAI-compatible chat completions endpoint.
type ChatClient struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

type Option func(*ChatClient)

func WithModel(model string) Option {
	return func(c *ChatClient) { c.model = model }
}

func WithMaxTokens(maxTokens int) Option {
	return func(c *ChatClient) { c.maxTokens = maxTokens }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *ChatClient) { c.httpClient = client }
}

func NewChatClient(apiKey, apiURL string, opts ...Option) *ChatClient {
	c := &ChatClient{
		apiKey:      apiKey,
		apiURL:      apiURL,
		model:       "gpt-3.5-turbo",
		maxTokens:   1024,
		temperature: 0.7,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *ChatClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	request := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

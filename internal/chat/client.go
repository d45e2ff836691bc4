// Package chat talks to the chat-completion provider and builds the prompts
// sent to it.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/takak2166/mailassist/internal/logger"
)

// ErrEmptyReply is returned when the provider answers without any choice
var ErrEmptyReply = errors.New("chat provider returned no reply")

// Generator produces a reply for a single user prompt
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// ProviderError is a failure reported by the chat provider or its transport
type ProviderError struct {
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("chat provider error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("chat provider error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err came from the chat provider
func IsProviderError(err error) bool {
	var providerErr *ProviderError
	return errors.As(err, &providerErr)
}

// Client is a Generator backed by an OpenAI-compatible API
type Client struct {
	api *openai.Client
}

// NewOpenAI creates a Client. baseURL may be empty for the public endpoint.
func NewOpenAI(apiKey, baseURL string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{api: openai.NewClientWithConfig(config)}
}

// Generate sends prompt as a single user message and returns the reply
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	logger.Debug("Requesting chat completion", map[string]interface{}{
		"model":         model,
		"prompt_length": len(prompt),
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", providerError(err))
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

// providerError wraps API and HTTP failures. Context errors pass through.
func providerError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &ProviderError{Err: err}
}

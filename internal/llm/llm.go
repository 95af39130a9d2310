// Package llm wraps an OpenAI-compatible chat completion API behind a
// single Complete call.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// Client wraps an OpenAI-compatible API client with a fixed model,
// temperature, and output token limit.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// New creates a new LLM client. baseURL may be empty to use the default
// OpenAI endpoint.
func New(baseURL, apiKey, modelName string, temperature float64, maxTokens int) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:         openai.NewClientWithConfig(config),
		model:       modelName,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
	}, nil
}

// WithTemperature returns a copy of the client using a different
// sampling temperature against the same endpoint.
func (c *Client) WithTemperature(temperature float64) *Client {
	clone := *c
	clone.temperature = float32(temperature)
	return &clone
}

// Complete sends a single-turn prompt and returns the model's text
// response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "model", c.model, "raw", raw)
	return raw, nil
}

// Ping verifies the endpoint is reachable and the credential is valid.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM endpoint check: %w", err)
	}
	return nil
}

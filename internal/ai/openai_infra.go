package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel       = openai.GPT4oMini
	DefaultMaxTokens   = 400
	DefaultTemperature = float32(0.6)
)

type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIClient: baseURL пустой → api.openai.com
func NewOpenAIClient(apiKey, baseURL, model string, maxTokens int) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: DefaultTemperature,
	}
}

func (c *OpenAIClient) GetCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// UpstreamError: модель недоступна или ответила ошибкой
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// diagnoseUpstreamError turns an upstream failure into a short hint for the operator.
func diagnoseUpstreamError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "OpenAI did not answer in time."
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == 401:
		return "Invalid OpenAI API key."
	case status == 404:
		return "Model not found."
	case status == 429:
		return "OpenAI rate limit or quota exceeded."
	case status == 400:
		return "Bad request to OpenAI."
	case status >= 500:
		return "OpenAI internal error."
	}
	return fmt.Sprintf("Unknown OpenAI error: %v", err)
}

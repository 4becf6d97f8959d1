package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeOpenAI(t *testing.T, handler func(w http.ResponseWriter, req openai.ChatCompletionRequest)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, req)
	}))
	t.Cleanup(server.Close)
	return server
}

func completionBody(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	}
}

func TestGetCompletion_SendsFixedParameters(t *testing.T) {
	server := fakeOpenAI(t, func(w http.ResponseWriter, req openai.ChatCompletionRequest) {
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Equal(t, 400, req.MaxTokens)
		assert.InDelta(t, 0.6, req.Temperature, 0.0001)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "hello", req.Messages[1].Content)
		}

		_ = json.NewEncoder(w).Encode(completionBody("  Hi from Tanky  "))
	})

	c := NewOpenAIClient("test-key", server.URL+"/v1", "", 0)
	got, err := c.GetCompletion(context.Background(), Prompt{System: "sys", UserText: "hello"}.Messages())

	require.NoError(t, err)
	assert.Equal(t, "  Hi from Tanky  ", got)
}

func TestGetCompletion_SendsImageParts(t *testing.T) {
	server := fakeOpenAI(t, func(w http.ResponseWriter, req openai.ChatCompletionRequest) {
		if assert.Len(t, req.Messages, 2) {
			parts := req.Messages[1].MultiContent
			if assert.Len(t, parts, 2) && assert.NotNil(t, parts[1].ImageURL) {
				assert.Equal(t, openai.ChatMessagePartTypeImageURL, parts[1].Type)
				assert.Equal(t, "data:image/png;base64,AAAA", parts[1].ImageURL.URL)
			}
		}

		_ = json.NewEncoder(w).Encode(completionBody("a neon tetra"))
	})

	c := NewOpenAIClient("test-key", server.URL+"/v1", "gpt-4o-mini", 400)
	p := Assemble(ChatRequest{Image: "data:image/jpeg;base64,AAAA"})
	got, err := c.GetCompletion(context.Background(), p.Messages())

	require.NoError(t, err)
	assert.Equal(t, "a neon tetra", got)
}

func TestGetCompletion_NoChoices(t *testing.T) {
	server := fakeOpenAI(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
		body := completionBody("")
		body["choices"] = []any{}
		_ = json.NewEncoder(w).Encode(body)
	})

	c := NewOpenAIClient("test-key", server.URL+"/v1", "", 0)
	got, err := c.GetCompletion(context.Background(), Prompt{UserText: "hi"}.Messages())

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetCompletion_APIError(t *testing.T) {
	server := fakeOpenAI(t, func(w http.ResponseWriter, _ openai.ChatCompletionRequest) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "Rate limit reached",
				"type":    "requests",
			},
		})
	})

	c := NewOpenAIClient("test-key", server.URL+"/v1", "", 0)
	_, err := c.GetCompletion(context.Background(), Prompt{UserText: "hi"}.Messages())

	require.Error(t, err)
	var apiErr *openai.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.HTTPStatusCode)
	assert.Equal(t, "OpenAI rate limit or quota exceeded.", diagnoseUpstreamError(err))
}

func TestDiagnoseUpstreamError(t *testing.T) {
	assert.Equal(t, "OpenAI did not answer in time.", diagnoseUpstreamError(context.DeadlineExceeded))
	assert.Equal(t, "Invalid OpenAI API key.", diagnoseUpstreamError(&openai.APIError{HTTPStatusCode: 401}))
	assert.Equal(t, "OpenAI internal error.", diagnoseUpstreamError(&openai.RequestError{HTTPStatusCode: 503, Err: errors.New("bad gateway")}))
	assert.Contains(t, diagnoseUpstreamError(errors.New("dial tcp: refused")), "dial tcp: refused")
}

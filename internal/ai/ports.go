package ai

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
)

type Service interface {
	// GetReply собирает промпт из запроса, вызывает модель и возвращает ответ
	// (или fallback-текст, если модель ничего не вернула).
	GetReply(ctx context.Context, req ChatRequest) (*Reply, error)
}

// Completer: низкоуровневый клиент к модели
type Completer interface {
	GetCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

type ChatRequest struct {
	Messages []Turn `json:"messages"`
	Image    string `json:"image,omitempty"`
	Lang     string `json:"lang,omitempty"`
}

type Turn struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageRef `json:"image_url,omitempty"`
}

type ImageRef struct {
	URL string `json:"url"`
}

// Content is either plain text or a list of multimodal parts.
type Content struct {
	Text  string
	Parts []Part
}

func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = Content{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Content{Text: s}
		return nil
	case data[0] == '[':
		var parts []Part
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		*c = Content{Parts: parts}
		return nil
	}
	return fmt.Errorf("content must be a string or a list of parts")
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.Parts != nil {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

// String returns the textual value; text parts are joined with a newline.
func (c Content) String() string {
	if c.Parts == nil {
		return c.Text
	}
	texts := make([]string, 0, len(c.Parts))
	for _, p := range c.Parts {
		if p.Type == "text" && p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

type Reply struct {
	Text     string
	Lang     string
	UserText string
	HasImage bool
	ImageURL string
}

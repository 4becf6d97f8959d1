package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/Vovarama1992/tanky/internal/ports"
)

const sendTimeout = 10 * time.Second

// HTTPSender: POST записи в таблицу (Apps Script / любой JSON-вебхук)
type HTTPSender struct {
	url    string
	client *http.Client
}

func NewHTTPSender(url string) *HTTPSender {
	return &HTTPSender{
		url:    url,
		client: &http.Client{Timeout: sendTimeout},
	}
}

func (s *HTTPSender) Send(ctx context.Context, rec ports.LogRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, string(b))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

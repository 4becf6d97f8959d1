package ports

import "context"

// DTO для истории обменов
type LogRecord struct {
	Timestamp string `json:"timestamp"`
	Lang      string `json:"lang"`
	User      string `json:"user"`
	HasImage  bool   `json:"hasImage"`
	Reply     string `json:"reply"`
}

// HistoryLimit: сколько последних записей хранится в истории
const HistoryLimit = 5

// LogSink: плоский текстовый лог, только дописывание
type LogSink interface {
	Append(ctx context.Context, line string) error
	// ReadAll returns "" when nothing has been written yet.
	ReadAll(ctx context.Context) (string, error)
}

// HistoryStore: ограниченная история, новые записи первыми
type HistoryStore interface {
	Push(ctx context.Context, rec LogRecord) error
	// Recent returns an empty, non-nil slice when the history does not exist yet.
	Recent(ctx context.Context) ([]LogRecord, error)
}

// WebhookNotifier mirrors records to an external endpoint without blocking.
type WebhookNotifier interface {
	Enqueue(rec LogRecord)
}

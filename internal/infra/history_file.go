package infra

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/Vovarama1992/tanky/internal/ports"
)

// FileHistory keeps the newest records in a JSON array file.
// Writes are serialized and replace the file via rename, so readers never see a partial array.
type FileHistory struct {
	path  string
	limit int
	mu    sync.Mutex
}

func NewFileHistory(path string, limit int) *FileHistory {
	if limit <= 0 {
		limit = ports.HistoryLimit
	}
	return &FileHistory{path: path, limit: limit}
}

func (h *FileHistory) Push(_ context.Context, rec ports.LogRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	// битый или отсутствующий файл: начинаем с пустой истории
	current, err := h.load()
	if err != nil {
		current = nil
	}

	return h.write(prependBounded(current, rec, h.limit))
}

func (h *FileHistory) Recent(_ context.Context) ([]ports.LogRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	records, err := h.load()
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []ports.LogRecord{}
	}
	return records, nil
}

func (h *FileHistory) load() ([]ports.LogRecord, error) {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var records []ports.LogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return records, nil
}

func (h *FileHistory) write(records []ports.LogRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(h.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(h.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history: %w", err)
	}

	if err := os.Rename(tmp.Name(), h.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

// prependBounded puts rec first and drops everything past limit.
func prependBounded(records []ports.LogRecord, rec ports.LogRecord, limit int) []ports.LogRecord {
	out := make([]ports.LogRecord, 0, limit)
	out = append(out, rec)
	for _, r := range records {
		if len(out) == limit {
			break
		}
		out = append(out, r)
	}
	return out
}

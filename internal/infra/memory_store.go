package infra

import (
	"context"
	"strings"
	"sync"

	"github.com/Vovarama1992/tanky/internal/ports"
)

// MemoryLog: in-memory LogSink
type MemoryLog struct {
	mu    sync.RWMutex
	lines []string
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(_ context.Context, line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, strings.TrimSuffix(line, "\n"))
	return nil
}

func (l *MemoryLog) ReadAll(_ context.Context) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.lines) == 0 {
		return "", nil
	}
	return strings.Join(l.lines, "\n") + "\n", nil
}

func (l *MemoryLog) Lines() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// MemoryHistory: in-memory HistoryStore
type MemoryHistory struct {
	mu      sync.RWMutex
	limit   int
	records []ports.LogRecord
}

func NewMemoryHistory(limit int) *MemoryHistory {
	if limit <= 0 {
		limit = ports.HistoryLimit
	}
	return &MemoryHistory{limit: limit}
}

func (h *MemoryHistory) Push(_ context.Context, rec ports.LogRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = prependBounded(h.records, rec, h.limit)
	return nil
}

func (h *MemoryHistory) Recent(_ context.Context) ([]ports.LogRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]ports.LogRecord, len(h.records))
	copy(out, h.records)
	return out, nil
}

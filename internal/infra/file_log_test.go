package infra

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLog_ReadMissingFile(t *testing.T) {
	l := NewFileLog(filepath.Join(t.TempDir(), "logs", "tanky.log"))

	content, err := l.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestFileLog_AppendCreatesDirAndKeepsOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "logs", "tanky.log")
	l := NewFileLog(path)

	require.NoError(t, l.Append(ctx, "first"))
	require.NoError(t, l.Append(ctx, "second\n"))

	content, err := l.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", content)
}

func TestFileLog_ConcurrentAppendsKeepWholeLines(t *testing.T) {
	ctx := context.Background()
	l := NewFileLog(filepath.Join(t.TempDir(), "tanky.log"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Append(ctx, "line-"+strings.Repeat("x", 100))
		}()
	}
	wg.Wait()

	content, err := l.ReadAll(ctx)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		assert.Equal(t, "line-"+strings.Repeat("x", 100), line)
	}
}

func TestFileLog_AppendFailsWhenPathIsDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "tanky.log"), 0o755))

	l := NewFileLog(filepath.Join(dir, "tanky.log"))
	assert.Error(t, l.Append(context.Background(), "x"))
}

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestGetLogsFiltersAndPaginates(t *testing.T) {
	path := writeLines(t,
		`{"level":"INFO","timestamp":"t1","message":"first","module":"session"}`,
		`not json`,
		`{"level":"ERROR","timestamp":"t2","message":"second","module":"backend"}`,
		`{"level":"INFO","timestamp":"t3","message":"third","module":"backend"}`,
	)
	l := &ZapLogger{filePath: path}

	all, err := l.GetLogs(LogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)
	assert.NotEmpty(t, all[0].Id)

	infos, err := l.GetLogs(LogFilter{Level: "INFO"})
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	backend, err := l.GetLogs(LogFilter{Module: "backend", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, backend, 1)
	assert.Equal(t, "second", backend[0].Message)

	entry, err := l.GetLogById(all[1].Id)
	require.NoError(t, err)
	assert.Equal(t, "second", entry.Message)

	_, err = l.GetLogById("nope")
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestGetLogsMissingFile(t *testing.T) {
	l := &ZapLogger{filePath: filepath.Join(t.TempDir(), "absent.log")}
	logs, err := l.GetLogs(LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)

	nop := NewNopLogger()
	nop.Info("test", "ignored", nil)
	logs, err = nop.GetLogs(LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

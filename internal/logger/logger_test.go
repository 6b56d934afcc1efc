package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(level)
	l.SetOutput(&buf)
	l.EnableColors(false)
	l.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{" warn ", WARN},
		{"warning", WARN},
		{"error", ERROR},
		{"fatal", FATAL},
		{"bogus", INFO},
		{"", INFO},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newTestLogger("warn")

	l.Debug("hidden")
	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)
	l.Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN ]")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "[ERROR]")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLineFormat(t *testing.T) {
	l, buf := newTestLogger("debug")
	l.Info("hello")

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "2024/03/01 12:00:00 [INFO ] logger_test.go:"), line)
	assert.True(t, strings.HasSuffix(line, " hello\n"), line)
}

func TestColors(t *testing.T) {
	l, buf := newTestLogger("debug")
	l.EnableColors(true)
	l.Debug("x")
	assert.Contains(t, buf.String(), levelColors[DEBUG])
	assert.Contains(t, buf.String(), colorReset)
}

func TestFatalExits(t *testing.T) {
	l, buf := newTestLogger("info")
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatalf("boom %s", "now")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "boom now")
}

func TestSetLevel(t *testing.T) {
	l, _ := newTestLogger("info")
	l.SetLevel("error")
	assert.Equal(t, ERROR, l.Level())
	assert.Equal(t, "ERROR", l.Level().String())
}

func TestMultiLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reveal.log")
	l, err := NewMultiLogger("info", path)
	require.NoError(t, err)

	l.Info("to file")
	l.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.NotContains(t, string(data), "\033[")
}

func TestMultiLoggerWithoutFile(t *testing.T) {
	l, err := NewMultiLogger("debug", "")
	require.NoError(t, err)
	assert.Nil(t, l.file)
}

package utils

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUtils_FormatTime(t *testing.T) {
	testCases := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.50s"},
		{2*time.Minute + 3*time.Second, "2m 3.00s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h 2m 3.00s"},
		{26*time.Hour + 3*time.Second, "1d 2h 0m 3.00s"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatTime(tc.d))
	}
}

func TestUtils_Math(t *testing.T) {
	assert.Equal(t, 2, Min(2, 5))
	assert.Equal(t, 2, Min(5, 2))
	assert.Equal(t, 5, Max(2, 5))
	assert.Equal(t, 0.5, Max(0.5, -1.0))
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 255.0, Clamp(300.0, 0, 255))
	assert.Equal(t, 0, Clamp(-4, 0, 255))
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
}

func TestUtils_DecorateText(t *testing.T) {
	defer func(v bool) { NoColor = v }(NoColor)

	NoColor = false
	assert.Equal(t, ErrorColor+"oops"+DefaultColor, DecorateText("oops", ErrorMessage))
	assert.Equal(t, WarningColor+"careful"+DefaultColor, DecorateText("careful", WarningMessage))

	NoColor = true
	assert.Equal(t, "oops", DecorateText("oops", ErrorMessage))
}

func TestUtils_WriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A (Apple).svg")

	require.NoError(t, WriteFile(path, []byte("first"), 0o644))
	require.NoError(t, WriteFile(path, []byte("second"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file is left behind")

	assert.Error(t, WriteFile(filepath.Join(dir, "missing", "x.png"), nil, 0o644))
}

func TestUtils_LogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLogHandler(&buf, slog.LevelInfo))

	logger.Debug("hidden")
	logger.With("deck", "abc").WithGroup("card").Info("generated", "name", "A (Apple)", "size", 42)
	logger.WithGroup("run").With("dir", "out").Warn("skipped", slog.Group("card", "word", "Zebra"), "n", 1)
	logger.Info("plain")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] generated | deck=abc, card.name=A (Apple), card.size=42\n")
	assert.Contains(t, out, "[WARN] skipped | run.dir=out, run.card.word=Zebra, run.n=1\n")
	assert.Contains(t, out, "[INFO] plain\n")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestUtils_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := NewLogger(&buf, "", ParseLevel("warn"))
	logger.Info("skipped")
	logger.Warn("shown")
	require.NoError(t, closer.Close())
	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "[WARN] shown")

	path := filepath.Join(t.TempDir(), "flashcards.log")
	logger, closer = NewLogger(&buf, path, slog.LevelDebug)
	logger.Debug("to file")
	require.NoError(t, closer.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] to file")
}

func TestUtils_ParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestUtils_Spinner(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "working", 5*time.Millisecond, false)
	s.StopMsg = "done\n"

	s.Start()
	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.SetMessage("still working")
	time.Sleep(30 * time.Millisecond)
	s.Stop()
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "working")
	assert.Contains(t, out, "still working")
	assert.True(t, strings.HasSuffix(out, "done\n"))
}

package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - (INFO|WARN|ERROR|DEBUG) - \[[^\]]+\] `)

func TestLineHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelInfo))

	logger.Info("task selected",
		Component("cycle"),
		slog.Int("step", 1),
		slog.String("duration", "2.1s"))

	line := strings.TrimRight(buf.String(), "\n")
	assert.Regexp(t, lineRe, line)
	assert.Contains(t, line, " - INFO - [cycle] task selected (step=1, duration=2.1s)")
}

func TestLineHandler_DefaultComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelInfo))

	logger.Info("starting session")
	assert.Contains(t, buf.String(), "[autocoder] starting session")
}

func TestLineHandler_WithCarriesComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(NewLineHandler(&buf, slog.LevelInfo))

	cycleLog := base.With(Component("cycle"), slog.Int("cycle", 3))
	cycleLog.Info("step complete", slog.Int("step", 2))

	line := buf.String()
	assert.Contains(t, line, "[cycle] step complete")
	assert.Contains(t, line, "cycle=3")
	assert.Contains(t, line, "step=2")
}

func TestLineHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelInfo))

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "WARN")
}

func TestOpen_DateStampedFile(t *testing.T) {
	dir := t.TempDir()

	sink, err := Open(dir, slog.LevelInfo)
	require.NoError(t, err)
	defer sink.Close() //nolint:errcheck

	wantName := "autocoder-" + time.Now().Format("2006-01-02") + ".log"
	assert.Equal(t, wantName, filepath.Base(sink.Path))

	sink.Logger.Info("hello")
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(sink.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestOpen_AppendsAcrossSinks(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir, slog.LevelInfo)
	require.NoError(t, err)
	first.Logger.Info("first run")
	require.NoError(t, first.Close())

	second, err := Open(dir, slog.LevelInfo)
	require.NoError(t, err)
	second.Logger.Info("second run")
	require.NoError(t, second.Close())

	data, err := os.ReadFile(second.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

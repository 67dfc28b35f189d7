package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	return tmpDir
}

func TestFromConfig(t *testing.T) {
	tmpDir := setupTest(t)
	t.Setenv("SCROLLMAP_SEARCH_PANEL_LOGGING_ENABLED", "true")
	t.Setenv("SCROLLMAP_SEARCH_PANEL_LOGGING_LEVEL", "warn")
	t.Setenv("SCROLLMAP_SEARCH_PANEL_LOGGING_MAX_FILES", "3")

	cfg := FromConfig(config.Load())

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, 3, cfg.MaxFiles)
	assert.Equal(t, filepath.Join(tmpDir, "state", "scrollmap-search-panel", "logs"), cfg.Dir)
	assert.Equal(t, os.Getpid(), cfg.PID)
}

func TestFromConfigDebugForcesDebugLevel(t *testing.T) {
	setupTest(t)
	t.Setenv("SCROLLMAP_SEARCH_PANEL_LOGGING_LEVEL", "error")
	t.Setenv("SCROLLMAP_SEARCH_PANEL_DEBUG", "1")

	cfg := FromConfig(config.Load())

	assert.Equal(t, "debug", cfg.Level)
}

func TestLogLevelMapping(t *testing.T) {
	tests := []struct {
		level   string
		debug   bool
		warning bool
	}{
		{level: "debug", debug: true, warning: true},
		{level: "info", debug: false, warning: true},
		{level: "warning", debug: false, warning: true},
		{level: "error", debug: false, warning: false},
		{level: "bogus", debug: false, warning: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, Config{Level: tt.level, Command: "test"})

			l.Debug("dbg")
			assert.Equal(t, tt.debug, strings.Contains(buf.String(), "dbg"))
			l.Warn("wrn")
			assert.Equal(t, tt.warning, strings.Contains(buf.String(), "wrn"))
		})
	}
}

func TestWriterLoggerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: "info", Command: "find", PID: 7}).With("editor", "a.go")

	l.Info("sync pass", "markers", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "sync pass", entry["msg"])
	assert.Equal(t, "a.go", entry["editor"])
	assert.Equal(t, float64(3), entry["markers"])
	assert.Equal(t, "find", entry["command"])
	assert.Equal(t, float64(7), entry["pid"])
}

func TestInitDisabledReturnsNoop(t *testing.T) {
	l, err := Init(Config{Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, Nop(), l)
	assert.NoError(t, l.Shutdown())
}

func TestInitWritesFileAndRotates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.MkdirAll(dir, 0700))
	old := time.Now().Add(-time.Hour)
	for _, name := range []string{"scrollmap-search-panel_a.log", "scrollmap-search-panel_b.log", "other.log"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
		require.NoError(t, os.Chtimes(path, old, old))
		old = old.Add(time.Minute)
	}

	l, err := Init(Config{Enabled: true, Level: "info", MaxFiles: 2, Dir: dir, Command: "view tui", PID: 1})
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, l.Shutdown())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "other.log", "foreign files are never rotated")
	assert.NotContains(t, names, "scrollmap-search-panel_a.log", "oldest file should be rotated away")
	assert.Contains(t, names, "scrollmap-search-panel_b.log")
	require.Len(t, names, 3)

	var current string
	for _, n := range names {
		if strings.Contains(n, "_PID1_view_tui") {
			current = n
		}
	}
	require.NotEmpty(t, current)
	data, err := os.ReadFile(filepath.Join(dir, current))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestGlobalLogger(t *testing.T) {
	setupTest(t)
	t.Setenv("SCROLLMAP_SEARCH_PANEL_LOGGING_ENABLED", "true")
	defer ShutdownGlobal()

	require.NoError(t, InitGlobal(config.Load()))
	path := CurrentLogFile()
	require.NotEmpty(t, path)
	Info("global entry")
	require.NoError(t, ShutdownGlobal())

	assert.Empty(t, CurrentLogFile())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "global entry")
}

func TestLogDirFallsBackToTemp(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	dir, err := LogDir(filepath.Join(blocker, "logs"))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.TempDir(), "scrollmap-search-panel", "logs"), dir)
}

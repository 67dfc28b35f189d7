package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directories at a temp dir and returns the config file path.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	return filepath.Join(tmpDir, "config", "scrollmap-search-panel", "config.toml")
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	path := isolate(t)

	s := Load()

	assert.Equal(t, path, s.Path())
	assert.Equal(t, 0, s.GetInt(KeyThreshold, -1))
	assert.False(t, s.GetBool(KeyPermanent, true))
	assert.Equal(t, 50*time.Millisecond, s.GetDuration(KeyThrottleDelay, time.Second))
	assert.Equal(t, "substring", s.Get(KeySearchMode, ""))
	assert.Equal(t, "default", s.Get("missing", "default"))
}

func TestLoadingPrecedence(t *testing.T) {
	path := isolate(t)
	writeConfig(t, path, `
threshold = 25
permanent = true
search_mode = "regex"
`)
	t.Setenv("SCROLLMAP_SEARCH_PANEL_THRESHOLD", "7")

	s := Load()

	require.Equal(t, 7, s.GetInt(KeyThreshold, 0), "environment should override config file")
	require.True(t, s.GetBool(KeyPermanent, false), "config file value should be used when not overridden")
	require.Equal(t, "regex", s.Get(KeySearchMode, ""))
}

func TestConfigPathOverride(t *testing.T) {
	isolate(t)
	custom := filepath.Join(t.TempDir(), "custom.toml")
	writeConfig(t, custom, "threshold = 3\n")
	t.Setenv("SCROLLMAP_SEARCH_PANEL_CONFIG_PATH", custom)

	s := Load()

	assert.Equal(t, custom, s.Path())
	assert.Equal(t, 3, s.GetInt(KeyThreshold, 0))
	_, hasPathKey := s.Snapshot()["config_path"]
	assert.False(t, hasPathKey)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{name: "negative threshold", key: KeyThreshold, value: "-4", want: "0"},
		{name: "non numeric threshold", key: KeyThreshold, value: "lots", want: "0"},
		{name: "bad boolean", key: KeyPermanent, value: "maybe", want: "false"},
		{name: "bad duration", key: KeyThrottleDelay, value: "soon", want: "50ms"},
		{name: "unknown mode", key: KeySearchMode, value: "fuzzy", want: "substring"},
		{name: "bool normalized", key: KeyPermanent, value: "yes", want: "true"},
		{name: "duration normalized", key: KeyThrottleDelay, value: "1000ms", want: "1s"},
		{name: "empty threshold means no limit", key: KeyThreshold, value: "", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			s := New()
			s.Set(tt.key, tt.value)
			assert.Equal(t, tt.want, s.Get(tt.key, ""))
		})
	}
}

func TestObserveFiresImmediatelyAndOnChange(t *testing.T) {
	isolate(t)
	s := New()

	var seen []int
	d := s.ObserveInt(KeyThreshold, func(v int) { seen = append(seen, v) })
	s.Set(KeyThreshold, "5")
	s.Set(KeyThreshold, "5")
	s.Set(KeyThreshold, "9")

	d.Dispose()
	s.Set(KeyThreshold, "11")

	assert.Equal(t, []int{0, 5, 9}, seen)
}

func TestOnDidChangeSkipsInitialValue(t *testing.T) {
	isolate(t)
	s := New()

	var seen []string
	s.OnDidChange(KeyPermanent, func(v string) { seen = append(seen, v) })
	s.Set(KeyPermanent, "true")

	assert.Equal(t, []string{"true"}, seen)
}

func TestObserveBool(t *testing.T) {
	isolate(t)
	s := New()

	var seen []bool
	s.ObserveBool(KeyPermanent, func(v bool) { seen = append(seen, v) })
	s.Set(KeyPermanent, "on")

	assert.Equal(t, []bool{false, true}, seen)
}

func TestReloadNotifiesChangedKeysOnly(t *testing.T) {
	path := isolate(t)
	s := Load()

	var thresholdChanges, permanentChanges int
	s.OnDidChange(KeyThreshold, func(string) { thresholdChanges++ })
	s.OnDidChange(KeyPermanent, func(string) { permanentChanges++ })

	writeConfig(t, path, "threshold = 12\n")
	s.Reload()
	s.Reload()

	assert.Equal(t, 1, thresholdChanges)
	assert.Equal(t, 0, permanentChanges)
	assert.Equal(t, 12, s.GetInt(KeyThreshold, 0))
}

func TestReloadKeepsRuntimeValues(t *testing.T) {
	path := isolate(t)
	writeConfig(t, path, "threshold = 1\n")
	s := Load()
	s.Set(KeyPermanent, "true")
	s.Set(KeyDebug, "true")

	var permanentChanges int
	s.OnDidChange(KeyPermanent, func(string) { permanentChanges++ })
	writeConfig(t, path, "threshold = 5\n")
	s.Reload()

	assert.Equal(t, 5, s.GetInt(KeyThreshold, 0))
	assert.True(t, s.GetBool(KeyPermanent, false), "runtime toggle should survive a reload")
	assert.True(t, s.GetBool(KeyDebug, false))
	assert.Equal(t, 0, permanentChanges)
}

func TestReloadFileEditWinsOverRuntimeValue(t *testing.T) {
	path := isolate(t)
	writeConfig(t, path, "threshold = 1\npermanent = false\n")
	s := Load()
	s.Set(KeyThreshold, "3")
	s.Set(KeyPermanent, "true")

	writeConfig(t, path, "threshold = 7\npermanent = false\n")
	s.Reload()
	assert.Equal(t, 7, s.GetInt(KeyThreshold, 0), "an edited key takes the file value")
	assert.True(t, s.GetBool(KeyPermanent, false), "an untouched key keeps the runtime value")

	// The dropped runtime value does not come back on the next reload.
	s.Reload()
	assert.Equal(t, 7, s.GetInt(KeyThreshold, 0))
}

func TestMarshalTOML(t *testing.T) {
	isolate(t)
	s := New()
	s.Set(KeyThreshold, "4")

	data, err := s.MarshalTOML()
	require.NoError(t, err)

	assert.Contains(t, string(data), "threshold = 4")
	assert.Contains(t, string(data), "permanent = false")
	assert.Regexp(t, `throttle_delay = ['"]50ms['"]`, string(data))
}

func TestWriteSample(t *testing.T) {
	path := isolate(t)
	s := New()

	written, err := s.WriteSample()
	require.NoError(t, err)
	require.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# scrollmap-search-panel configuration")
	assert.NotContains(t, string(data), "config_dir")

	// Existing file is left alone
	writeConfig(t, path, "threshold = 1\n")
	_, err = s.WriteSample()
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "threshold = 1\n", string(data))
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := isolate(t)
	writeConfig(t, path, "threshold = 1\n")
	s := Load()

	var mu sync.Mutex
	var latest int
	s.OnDidChange(KeyThreshold, func(v string) {
		mu.Lock()
		defer mu.Unlock()
		latest = parseInt(v, 0)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	writeConfig(t, path, "threshold = 42\n")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest == 42
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatchMissingDirectory(t *testing.T) {
	isolate(t)
	t.Setenv("SCROLLMAP_SEARCH_PANEL_CONFIG_PATH", filepath.Join(t.TempDir(), "nope", "config.toml"))
	s := Load()

	err := s.Watch(context.Background())
	require.Error(t, err)
}

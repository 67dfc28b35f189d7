// Package logging provides structured file logging for scrollmap-search-panel.
package logging

import (
	"os"
	"path/filepath"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/config"
)

// Config holds logging configuration.
type Config struct {
	// Enabled determines whether logging is active.
	Enabled bool
	// Level is the minimum log level to record.
	Level string
	// MaxFiles is the maximum number of log files to retain.
	MaxFiles int
	// Dir is the directory log files are written to. Empty means LogDir.
	Dir string
	// Command is the name of the command being executed.
	Command string
	// PID is the process ID.
	PID int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Enabled:  false,
		Level:    "info",
		MaxFiles: 10,
		Command:  filepath.Base(os.Args[0]),
		PID:      os.Getpid(),
	}
}

// FromConfig creates a logging Config from the configuration store.
// Debug mode forces the debug level.
func FromConfig(store *config.Store) Config {
	cfg := DefaultConfig()
	cfg.Enabled = store.GetBool(config.KeyLoggingEnabled, false)
	cfg.Level = store.Get(config.KeyLoggingLevel, "info")
	cfg.MaxFiles = store.GetInt(config.KeyLoggingMaxFiles, 10)
	if store.GetBool(config.KeyDebug, false) {
		cfg.Level = "debug"
	}
	if stateDir := store.Get(config.KeyStateDir, ""); stateDir != "" {
		cfg.Dir = filepath.Join(stateDir, "logs")
	}
	return cfg
}

// LogDir returns the directory where log files should be stored.
// It uses the following priority:
// 1. preferred (if accessible and writable)
// 2. {os.TempDir()}/scrollmap-search-panel/logs (fallback)
func LogDir(preferred string) (string, error) {
	if preferred != "" {
		if err := os.MkdirAll(preferred, 0700); err == nil {
			if testFileWrite(preferred) {
				return preferred, nil
			}
		}
	}
	tempBase := filepath.Join(os.TempDir(), "scrollmap-search-panel", "logs")
	if err := os.MkdirAll(tempBase, 0700); err != nil {
		return "", err
	}
	return tempBase, nil
}

// testFileWrite attempts to create a temporary file in dir to verify write permissions.
func testFileWrite(dir string) bool {
	tmp := filepath.Join(dir, ".write_test")
	f, err := os.Create(tmp)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmp)
	return true
}

// Package config provides configuration loading and change observation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/colors"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/disposable"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of environment variables that override configuration keys.
const EnvPrefix = "SCROLLMAP_SEARCH_PANEL_"

// Configuration keys.
const (
	KeyThreshold       = "threshold"
	KeyPermanent       = "permanent"
	KeyThrottleDelay   = "throttle_delay"
	KeySearchMode      = "search_mode"
	KeyIgnoreCase      = "ignore_case"
	KeyLoggingEnabled  = "logging_enabled"
	KeyLoggingLevel    = "logging_level"
	KeyLoggingMaxFiles = "logging_max_files"
	KeyDebug           = "debug"
	KeyConfigDir       = "config_dir"
	KeyStateDir        = "state_dir"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644

	// FileExtTOML is the file extension for TOML configuration files.
	FileExtTOML = ".toml"
)

// Store holds the effective configuration and notifies observers when values change.
// Values are kept as normalized strings; typed getters parse on read.
type Store struct {
	mu        sync.RWMutex
	values    map[string]string
	defaults  map[string]string
	observers map[string]map[uint64]func(string)
	nextID    uint64
	path      string

	// loaded holds the values of the last load, before runtime overrides.
	loaded map[string]string
	// overrides holds values set at runtime; they survive reloads.
	overrides map[string]string
}

// New returns a store holding only default values.
func New() *Store {
	s := &Store{
		observers: make(map[string]map[uint64]func(string)),
		overrides: make(map[string]string),
	}
	s.defaults = defaults()
	s.values = copyMap(s.defaults)
	s.loaded = copyMap(s.defaults)
	s.path = resolvePath(s.values)
	return s
}

// Load returns a store initialized from defaults, the config file and the environment.
func Load() *Store {
	s := New()
	s.Reload()
	return s
}

// Reload recomputes the configuration and notifies observers of keys whose value changed.
// Precedence: environment, then config file, then defaults. Values set at
// runtime are kept, unless the reload itself changed that key: the newer
// edit wins and the runtime value is dropped.
func (s *Store) Reload() {
	values := copyMap(s.defaults)
	// Apply environment first so config_dir/config_path overrides pick the file
	loadFromEnv(values)
	path := resolvePath(values)
	loadFromFile(values, path)
	// Re-apply environment so env wins over the file
	loadFromEnv(values)
	validate(values, s.defaults)
	computeDirs(values)

	s.mu.Lock()
	loaded := copyMap(values)
	for key, value := range s.overrides {
		if loaded[key] != s.loaded[key] {
			delete(s.overrides, key)
			continue
		}
		values[key] = value
	}
	s.loaded = loaded
	old := s.values
	s.values = values
	s.path = path
	changed := changedKeys(old, values)
	calls := s.collectLocked(changed)
	s.mu.Unlock()

	for _, call := range calls {
		call()
	}
}

// Path returns the configuration file path. The file may not exist.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Get returns a configuration value or default.
func (s *Store) Get(key, defaultValue string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if val, ok := s.values[key]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns a configuration value as integer, or default.
func (s *Store) GetInt(key string, defaultValue int) int {
	return parseInt(s.Get(key, ""), defaultValue)
}

// GetBool returns a configuration value as boolean, or default.
func (s *Store) GetBool(key string, defaultValue bool) bool {
	return parseBool(s.Get(key, ""), defaultValue)
}

// GetDuration returns a configuration value as duration, or default.
func (s *Store) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := s.Get(key, "")
	if val == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return d
}

// Set validates and stores a value, notifying observers when it changed.
// The value is kept across reloads until the file or environment changes it.
func (s *Store) Set(key, value string) {
	key = strings.ToLower(key)
	if validator := getValidator(key); validator != nil {
		normalized, err := validator(key, value, s.defaults[key])
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, s.defaults[key]))
			normalized = s.defaults[key]
		}
		value = normalized
	}

	s.mu.Lock()
	s.overrides[key] = value
	if old, ok := s.values[key]; ok && old == value {
		s.mu.Unlock()
		return
	}
	s.values[key] = value
	calls := s.collectLocked([]string{key})
	s.mu.Unlock()

	for _, call := range calls {
		call()
	}
}

// OnDidChange calls fn with the new value each time key changes.
func (s *Store) OnDidChange(key string, fn func(value string)) disposable.Disposable {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	if s.observers[key] == nil {
		s.observers[key] = make(map[uint64]func(string))
	}
	s.observers[key][id] = fn
	return disposable.Once(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers[key], id)
	})
}

// Observe calls fn immediately with the current value of key and again on every change.
func (s *Store) Observe(key string, fn func(value string)) disposable.Disposable {
	d := s.OnDidChange(key, fn)
	fn(s.Get(key, ""))
	return d
}

// ObserveInt is Observe with the value parsed as an integer (0 when unparsable).
func (s *Store) ObserveInt(key string, fn func(int)) disposable.Disposable {
	return s.Observe(key, func(value string) {
		fn(parseInt(value, 0))
	})
}

// ObserveBool is Observe with the value parsed as a boolean (false when unparsable).
func (s *Store) ObserveBool(key string, fn func(bool)) disposable.Disposable {
	return s.Observe(key, func(value string) {
		fn(parseBool(value, false))
	})
}

// Snapshot returns a copy of the effective configuration.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMap(s.values)
}

// MarshalTOML renders the effective configuration as TOML with typed values.
func (s *Store) MarshalTOML() ([]byte, error) {
	typed := make(map[string]interface{})
	for k, v := range s.Snapshot() {
		typed[k] = valueToInterface(v)
	}
	return toml.Marshal(typed)
}

// WriteSample writes the default configuration to the config file if none exists.
// Returns the path written, or the existing path.
func (s *Store) WriteSample() (string, error) {
	path := s.Path()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	typed := make(map[string]interface{})
	for k, v := range s.defaults {
		if k == KeyConfigDir || k == KeyStateDir {
			continue
		}
		typed[k] = valueToInterface(v)
	}
	data, err := toml.Marshal(typed)
	if err != nil {
		return "", fmt.Errorf("marshal sample config: %w", err)
	}
	header := "# scrollmap-search-panel configuration\n# This file is in TOML format.\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), FileModeFile); err != nil {
		return "", fmt.Errorf("write sample config to %s: %w", path, err)
	}
	return path, nil
}

// collectLocked returns the observer calls for the given keys. Caller holds s.mu.
func (s *Store) collectLocked(keys []string) []func() {
	var calls []func()
	for _, key := range keys {
		value := s.values[key]
		ids := make([]uint64, 0, len(s.observers[key]))
		for id := range s.observers[key] {
			ids = append(ids, id)
		}
		// Notify in subscription order
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fn := s.observers[key][id]
			calls = append(calls, func() { fn(value) })
		}
	}
	return calls
}

// defaults returns the default configuration values.
func defaults() map[string]string {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	return map[string]string{
		KeyConfigDir:       filepath.Join(xdgConfigHome, "scrollmap-search-panel"),
		KeyStateDir:        filepath.Join(xdgStateHome, "scrollmap-search-panel"),
		KeyThreshold:       "0",
		KeyPermanent:       "false",
		KeyThrottleDelay:   "50ms",
		KeySearchMode:      "substring",
		KeyIgnoreCase:      "false",
		KeyLoggingEnabled:  "false",
		KeyLoggingLevel:    "info",
		KeyLoggingMaxFiles: "10",
		KeyDebug:           "false",
	}
}

// resolvePath returns the config file path for the given values.
func resolvePath(values map[string]string) string {
	if p := os.Getenv(EnvPrefix + "CONFIG_PATH"); p != "" {
		return p
	}
	return filepath.Join(values[KeyConfigDir], "config"+FileExtTOML)
}

// loadFromFile merges configuration from a TOML file into values.
func loadFromFile(values map[string]string, path string) {
	if path == "" {
		return
	}
	if strings.ToLower(filepath.Ext(path)) != FileExtTOML {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			colors.Debug(fmt.Sprintf("unable to read config file %s: %v", path, err))
		}
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", path, err))
		return
	}

	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		values[key] = converted
	}
}

// coerceConfigValue converts a configuration value to its string representation.
// Supported types are string, int, int64, float64, and bool.
func coerceConfigValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv(values map[string]string) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, EnvPrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], EnvPrefix))
		if key == "config_path" {
			continue
		}
		values[key] = parts[1]
	}
}

// validate checks and normalizes configuration values using registered validators.
func validate(values, defaults map[string]string) {
	for key, value := range values {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := defaults[key]
		normalized, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			values[key] = defaultValue
			continue
		}
		values[key] = normalized
	}
}

// computeDirs fills derived directories after overrides are applied.
func computeDirs(values map[string]string) {
	if values[KeyStateDir] == "" {
		values[KeyStateDir] = filepath.Join(os.TempDir(), "scrollmap-search-panel")
	}
}

func changedKeys(old, current map[string]string) []string {
	var keys []string
	for k, v := range current {
		if prev, ok := old[k]; !ok || prev != v {
			keys = append(keys, k)
		}
	}
	for k := range old {
		if _, ok := current[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// valueToInterface converts a configuration value to appropriate type for TOML.
func valueToInterface(val string) interface{} {
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}

func parseInt(val string, defaultValue int) int {
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

func parseBool(val string, defaultValue bool) bool {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

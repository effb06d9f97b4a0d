// Package config holds the application configuration: compiled-in
// defaults, an optional YAML file on top, and a mutex-guarded store for
// cross-thread access. The config is constructed once at startup and
// injected; there is no process-wide lazy singleton.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can say "250ms" or "1s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// WindowConfig describes the application window.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Config is the full application configuration.
type Config struct {
	Window WindowConfig `yaml:"window"`

	// PollInterval paces the program supervisor's drain loop.
	PollInterval Duration `yaml:"poll_interval"`
	// TickInterval paces the engine and UI worker loops.
	TickInterval Duration `yaml:"tick_interval"`
	// QueueCapacity is the per-receiver broadcast buffer size.
	QueueCapacity int `yaml:"queue_capacity"`

	// ResourceDir overrides the executable-relative resource path.
	ResourceDir string `yaml:"resource_dir"`
	// FontSizePx is the atlas rasterization size.
	FontSizePx float64 `yaml:"font_size_px"`

	Verbose bool `yaml:"verbose"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "shell",
		},
		PollInterval:  Duration(time.Second),
		TickInterval:  Duration(50 * time.Millisecond),
		QueueCapacity: 64,
		FontSizePx:    18,
	}
}

// Load reads the YAML config at path on top of the defaults. A missing
// or unparseable file is not fatal: the defaults are returned and the
// fallback is logged, so a broken config never keeps the app from
// starting. An empty path skips the file entirely.
func Load(path string, logger *slog.Logger) Config {
	cfg := Default()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("config file unreadable, using defaults", "path", path, "error", err)
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Warn("config file unparseable, using defaults", "path", path, "error", err)
		return Default()
	}
	return cfg
}

// Validate rejects values the shell cannot run with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d is not positive", c.Window.Width, c.Window.Height)
	}
	if c.PollInterval <= 0 || c.TickInterval <= 0 {
		return fmt.Errorf("poll interval %v and tick interval %v must be positive",
			time.Duration(c.PollInterval), time.Duration(c.TickInterval))
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queue capacity %d must be positive", c.QueueCapacity)
	}
	return nil
}

// Store guards a Config for cross-thread access. Reads snapshot-and-copy
// under the lock to keep hold times minimal; writes go through Update.
type Store struct {
	mu  sync.Mutex
	cfg Config
}

// NewStore creates a store seeded with cfg.
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg}
}

// Snapshot returns a copy of the current config.
func (s *Store) Snapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Update applies f to the config under the lock.
func (s *Store) Update(f func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.cfg)
}

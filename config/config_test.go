package config_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/shell/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg := config.Load("", discardLogger())
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), discardLogger())
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadUnparseableFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [not a map"), 0o644))

	cfg := config.Load(path, discardLogger())
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  width: 1920
  height: 1080
  title: my app
poll_interval: 250ms
tick_interval: 10ms
queue_capacity: 128
font_size_px: 22
`), 0o644))

	cfg := config.Load(path, discardLogger())
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 1080, cfg.Window.Height)
	assert.Equal(t, "my app", cfg.Window.Title)
	assert.Equal(t, config.Duration(250*time.Millisecond), cfg.PollInterval)
	assert.Equal(t, config.Duration(10*time.Millisecond), cfg.TickInterval)
	assert.Equal(t, 128, cfg.QueueCapacity)
	assert.Equal(t, 22.0, cfg.FontSizePx)
	// Untouched keys keep their defaults.
	assert.Equal(t, config.Default().ResourceDir, cfg.ResourceDir)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.Window.Width = 0
	assert.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.PollInterval = 0
	assert.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.QueueCapacity = -1
	assert.Error(t, cfg.Validate())
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	store := config.NewStore(config.Default())

	snap := store.Snapshot()
	store.Update(func(c *config.Config) { c.Window.Title = "changed" })

	assert.Equal(t, config.Default().Window.Title, snap.Window.Title)
	assert.Equal(t, "changed", store.Snapshot().Window.Title)
}

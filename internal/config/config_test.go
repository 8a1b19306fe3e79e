package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithoutEnvOrDotenv(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, 5*time.Millisecond, cfg.ScanInterval)
	assert.Equal(t, 1*time.Millisecond, cfg.ProcessInterval)
	assert.Equal(t, 32, cfg.EventQueueSize)
	assert.Equal(t, 5, cfg.MaxEventsPerCycle)
	assert.Equal(t, 200*time.Millisecond, cfg.HoldTapTimeout)
	assert.False(t, cfg.Debug)
}

func TestLoadHonorsEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCAN_INTERVAL", "10ms")
	t.Setenv("DEBUG", "true")

	cfg := Load()
	assert.Equal(t, 10*time.Millisecond, cfg.ScanInterval)
	assert.True(t, cfg.Debug)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "makbe.yaml")
	err := os.WriteFile(path, []byte("addr: 127.0.0.1:9090\nscan_interval: 8ms\ndebug: true\n"), 0o644)
	require.NoError(t, err)

	cfg, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
	assert.Equal(t, 8*time.Millisecond, cfg.ScanInterval)
	assert.True(t, cfg.Debug)
	// Fields the YAML omits keep their envconfig default.
	assert.Equal(t, 32, cfg.EventQueueSize)
}

func TestLoadYAMLMissingFileErrors(t *testing.T) {
	clearEnv(t)
	_, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ADDR", "I2C_DEVICE", "I2C_CLOCK", "SCAN_INTERVAL", "PROCESS_INTERVAL",
		"EVENT_QUEUE_SIZE", "MAX_EVENTS_PER_CYCLE", "DEBOUNCE_LIMIT",
		"HOLD_TAP_TIMEOUT", "DEBUG", "TRACE_CAPACITY",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

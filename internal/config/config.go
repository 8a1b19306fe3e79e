// Package config loads the reference firmware's runtime settings from
// environment variables (with an optional .env file) or a YAML file,
// following the same pattern the teacher repo's config package uses.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Config holds everything cmd/makbe-sim needs to wire up a Scanner, a
// Processor, and the diagnostics server.
type Config struct {
	// HTTP diagnostics server.
	Addr string `envconfig:"ADDR" yaml:"addr" default:"0.0.0.0:8080"`

	// I2C bus. BusClock is advisory (the reference binary uses a
	// simulated bus): it is parsed but neither validated nor clamped.
	I2CDevice string           `envconfig:"I2C_DEVICE" yaml:"i2c_device" default:"/dev/i2c-1"`
	BusClock  physic.Frequency `envconfig:"I2C_CLOCK" yaml:"i2c_clock" default:"400kHz"`

	// Scan pipeline tuning (spec.md §6).
	ScanInterval      time.Duration `envconfig:"SCAN_INTERVAL" yaml:"scan_interval" default:"5ms"`
	ProcessInterval   time.Duration `envconfig:"PROCESS_INTERVAL" yaml:"process_interval" default:"1ms"`
	EventQueueSize    int           `envconfig:"EVENT_QUEUE_SIZE" yaml:"event_queue_size" default:"32"`
	MaxEventsPerCycle int           `envconfig:"MAX_EVENTS_PER_CYCLE" yaml:"max_events_per_cycle" default:"5"`
	DebounceLimit     int           `envconfig:"DEBOUNCE_LIMIT" yaml:"debounce_limit" default:"4"`

	HoldTapTimeout time.Duration `envconfig:"HOLD_TAP_TIMEOUT" yaml:"hold_tap_timeout" default:"200ms"`

	Debug bool `envconfig:"DEBUG" yaml:"debug" default:"false"`

	// TraceCapacity sizes the diagnostics scan-trace ring buffer; 0 disables
	// tracing entirely.
	TraceCapacity int `envconfig:"TRACE_CAPACITY" yaml:"trace_capacity" default:"256"`
}

// Load reads a .env file (if present) then populates Config from
// environment variables. A missing .env is logged and otherwise ignored; malformed
// values are fatal, matching the teacher's Load.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment and defaults")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		log.Fatal("config: ", err)
	}
	return cfg
}

// LoadYAML reads Config from a YAML file, applying envconfig defaults for
// any field the file omits. Unlike Load, a missing or malformed file is a
// returned error rather than a fatal log, since the simulator treats YAML
// config as explicitly opt-in.
func LoadYAML(path string) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("config: applying defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

package sekai

import (
	"io"
	"log"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const (
	defaultInitialCapacity = 1024
	defaultLogPrefix       = "[sekai] "
)

// Config configures a World.
//
// Example YAML:
//
//	initialCapacity: 4096
//	diagnostics: true
//	logPrefix: "[game] "
//	scheduler:
//	  logFaults: true
type Config struct {
	// InitialCapacity presizes the entity table and every component store.
	InitialCapacity int `yaml:"initialCapacity"`

	// Diagnostics enables the query cache counters reported by World.Stats.
	Diagnostics bool `yaml:"diagnostics"`

	// Quiet discards log output. Faults are still counted and published.
	// Quiet takes precedence over Logger and Scheduler.Logger: both are
	// replaced by a discarding logger.
	Quiet bool `yaml:"quiet"`

	// LogPrefix is used when no Logger is supplied.
	LogPrefix string `yaml:"logPrefix"`

	// Scheduler configures the embedded system scheduler.
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Logger receives fault reports. Defaults to stderr.
	Logger *log.Logger `yaml:"-"`
}

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	// LogFaults writes one line per fault. Defaults to true.
	LogFaults *bool `yaml:"logFaults"`

	// Logger receives fault reports. World fills it in from Config.
	Logger *log.Logger `yaml:"-"`
}

// DefaultConfig returns the configuration NewWorld uses for zero fields.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a YAML configuration file.
//
// Parameters:
//   - path: the configuration file path
//
// Returns:
//   - Config: the parsed configuration with defaults applied
//   - error: when the file cannot be read, parsed or validated
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, eris.Wrapf(err, "failed to read config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, eris.Wrapf(err, "failed to load config %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes a YAML configuration document.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, eris.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Validate checks the configuration for values NewWorld cannot use.
func (c Config) Validate() error {
	if c.InitialCapacity < 0 {
		return eris.Errorf("initialCapacity must not be negative, got %d", c.InitialCapacity)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.InitialCapacity == 0 {
		c.InitialCapacity = defaultInitialCapacity
	}
	if c.LogPrefix == "" {
		c.LogPrefix = defaultLogPrefix
	}
	if c.Quiet {
		c.Logger = log.New(io.Discard, c.LogPrefix, 0)
		c.Scheduler.Logger = c.Logger
	}
	if c.Logger == nil {
		c.Logger = log.New(os.Stderr, c.LogPrefix, log.LstdFlags|log.Lmicroseconds)
	}
	if c.Scheduler.Logger == nil {
		c.Scheduler.Logger = c.Logger
	}
	c.Scheduler.applyDefaults()
}

func (c *SchedulerConfig) applyDefaults() {
	if c.LogFaults == nil {
		on := true
		c.LogFaults = &on
	}
	if c.Logger == nil {
		c.Logger = log.New(os.Stderr, defaultLogPrefix, log.LstdFlags|log.Lmicroseconds)
	}
}

package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Drivers supported by the --driver flag.
const (
	DriverGoRedis = "go-redis"
	DriverRedigo  = "redigo"
	DriverMemory  = "memory"
)

// Config holds the settings shared by every command. It can be loaded from a YAML file and is overridden by flags.
type Config struct {
	// Driver selects the store adapter: go-redis, redigo or memory.
	Driver string `yaml:"driver"`

	// Addr is the Redis address used by the go-redis and redigo drivers.
	Addr string `yaml:"addr"`

	// Protocol is the RESP version the go-redis driver negotiates.
	Protocol int `yaml:"protocol"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Driver:   DriverMemory,
		Addr:     "localhost:6379",
		Protocol: 2,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the driver and protocol values.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverGoRedis, DriverRedigo, DriverMemory:
	default:
		return fmt.Errorf("unknown driver %q: must be one of %s, %s, %s", c.Driver, DriverGoRedis, DriverRedigo, DriverMemory)
	}

	if c.Protocol != 2 && c.Protocol != 3 {
		return fmt.Errorf("unsupported protocol %d: must be 2 or 3", c.Protocol)
	}
	return nil
}

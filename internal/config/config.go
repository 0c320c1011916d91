/*
PURPOSE:
  Defines the configuration structure and loading logic for the image test harness.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Regression thresholds are named tuning values, not literals.
  - Allow configuration of directories, encoder binaries and result sinks.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Fields missing from the file keep their defaults.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine, internal/encoder, internal/output
  - Dependencies: gopkg.in/yaml.v3

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - A missing default file is not an error (defaults are used).

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults must reproduce the historical harness behavior.

USAGE:
  cfg, err := config.Load("astc_test.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig().

RELATED FILES:
  - internal/cli/root.go
  - internal/engine/compare.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Thresholds are PSNR deltas (dB) below which a result is downgraded.
type Thresholds struct {
	Warn   float64 `yaml:"warn"`
	Fail   float64 `yaml:"fail"`
	Fail3D float64 `yaml:"fail_3d"`
}

// Redis configures the optional result stream publisher.
type Redis struct {
	Addr   string `yaml:"addr"` // empty disables publishing
	Stream string `yaml:"stream"`
}

// Config represents the full configuration for a harness invocation.
type Config struct {
	ImageRoot  string     `yaml:"image_root"`
	OutputRoot string     `yaml:"output_root"`
	Quality    string     `yaml:"quality"` // search preset passed to every encoder run
	Thresholds Thresholds `yaml:"thresholds"`
	// Binaries overrides the executable used for an encoder variant.
	Binaries    map[string]string `yaml:"binaries"`
	JSONResults bool              `yaml:"json_results"`
	Redis       Redis             `yaml:"redis"`
	LogLevel    string            `yaml:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ImageRoot:  "Test/Images",
		OutputRoot: "TestOutput",
		Quality:    "-thorough",
		Thresholds: Thresholds{
			Warn:   -0.1,
			Fail:   -0.2,
			Fail3D: -0.6,
		},
		Binaries: map[string]string{},
		Redis: Redis{
			Stream: "astc:results",
		},
		LogLevel: "info",
	}
}

// DefaultFiles are searched in order when no config path is given.
var DefaultFiles = []string{"astc_test.yaml", "astc_test.yml", ".astc_test.yaml"}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		found := false
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks internal consistency of the thresholds and sinks.
func (c *Config) Validate() error {
	t := c.Thresholds
	if t.Warn > 0 || t.Fail > 0 || t.Fail3D > 0 {
		return errors.New("thresholds must be zero or negative")
	}
	if t.Fail > t.Warn || t.Fail3D > t.Warn {
		return fmt.Errorf("fail thresholds (%g, %g) must not exceed warn threshold %g", t.Fail, t.Fail3D, t.Warn)
	}
	if c.Redis.Addr != "" && c.Redis.Stream == "" {
		return errors.New("redis.stream is required when redis.addr is set")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log level name onto slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/wikisnp/internal/shared/paths"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "WIKISNP"

var ErrUnsupportedFormat = errors.New("unsupported config file format")

// Config holds all application configuration.
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch" toml:"fetch"`
	Cache   CacheConfig   `yaml:"cache" toml:"cache"`
	Logging LogConfig     `yaml:"logging" toml:"logging"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// FetchConfig holds HTTP client configuration.
type FetchConfig struct {
	Timeout      Duration `yaml:"timeout" toml:"timeout" envconfig:"TIMEOUT"`
	UserAgent    string   `yaml:"user_agent" toml:"user_agent" envconfig:"USER_AGENT"`
	MaxRetries   int      `yaml:"max_retries" toml:"max_retries" envconfig:"MAX_RETRIES"`
	RetryWaitMin Duration `yaml:"retry_wait_min" toml:"retry_wait_min" envconfig:"RETRY_WAIT_MIN"`
	RetryWaitMax Duration `yaml:"retry_wait_max" toml:"retry_wait_max" envconfig:"RETRY_WAIT_MAX"`
	RateLimit    float64  `yaml:"rate_limit" toml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	Enabled         bool   `yaml:"enabled" toml:"enabled" envconfig:"ENABLED"`
	Dir             string `yaml:"dir" toml:"dir" envconfig:"DIR"`
	CacheableStatus []int  `yaml:"cacheable_status" toml:"cacheable_status" envconfig:"CACHEABLE_STATUS"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `yaml:"level" toml:"level" envconfig:"LEVEL"`
	Development bool   `yaml:"development" toml:"development" envconfig:"DEV"`
}

// MetricsConfig holds metrics export configuration.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path" toml:"textfile_path" envconfig:"TEXTFILE_PATH"`
}

// Duration is a time.Duration written as "10s" in files and the environment.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:      Duration(10 * time.Second),
			UserAgent:    "wikisnp/1.0 (+https://github.com/GriffinCanCode/wikisnp)",
			MaxRetries:   3,
			RetryWaitMin: Duration(1 * time.Second),
			RetryWaitMax: Duration(30 * time.Second),
		},
		Cache: CacheConfig{
			Enabled:         true,
			Dir:             paths.CacheDir(),
			CacheableStatus: []int{200, 400},
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Load builds configuration from defaults, then the optional file at path,
// then WIKISNP_* environment variables. Later layers win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration or falls back to Default on any error.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}

// loadFile decodes a YAML or TOML file on top of the current values, so keys
// absent from the file keep their defaults. Unknown keys are rejected.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.UnmarshalWithOptions(data, c, yaml.Strict())
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(c)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Override applies the non-zero fields of o on top of c. Zero values never
// override, so boolean switches that turn something off are applied directly
// by the caller.
func (c *Config) Override(o Config) error {
	if err := mergo.Merge(c, o, mergo.WithOverride); err != nil {
		return fmt.Errorf("failed to apply config overrides: %w", err)
	}
	return nil
}

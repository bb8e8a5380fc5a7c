package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	// Fetch config
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout.Std())
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, float64(0), cfg.Fetch.RateLimit)
	assert.NotEmpty(t, cfg.Fetch.UserAgent)

	// Cache config
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "wikisnp", filepath.Base(cfg.Cache.Dir))
	assert.Equal(t, []int{200, 400}, cfg.Cache.CacheableStatus)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Metrics config
	assert.Empty(t, cfg.Metrics.TextfilePath)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"WIKISNP_FETCH_TIMEOUT":          "3s",
		"WIKISNP_FETCH_RATE_LIMIT":       "2.5",
		"WIKISNP_CACHE_ENABLED":          "false",
		"WIKISNP_CACHE_DIR":              "/var/cache/wikisnp",
		"WIKISNP_CACHE_CACHEABLE_STATUS": "200,203",
		"WIKISNP_LOGGING_LEVEL":          "debug",
		"WIKISNP_LOGGING_DEV":            "true",
		"WIKISNP_METRICS_TEXTFILE_PATH":  "/var/lib/node_exporter/wikisnp.prom",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout.Std())
	assert.Equal(t, 2.5, cfg.Fetch.RateLimit)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "/var/cache/wikisnp", cfg.Cache.Dir)
	assert.Equal(t, []int{200, 203}, cfg.Cache.CacheableStatus)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "/var/lib/node_exporter/wikisnp.prom", cfg.Metrics.TextfilePath)

	// Untouched values keep their defaults
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
}

func TestLoadInvalidEnvironment(t *testing.T) {
	t.Setenv("WIKISNP_FETCH_TIMEOUT", "soon")

	_, err := Load("")
	assert.Error(t, err)

	cfg := LoadOrDefault("")
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{
			name: "yaml",
			file: "wikisnp.yaml",
			body: `
fetch:
  timeout: 30s
  max_retries: 5
cache:
  enabled: false
logging:
  level: warn
`,
		},
		{
			name: "yml",
			file: "wikisnp.yml",
			body: `
fetch:
  timeout: 30s
  max_retries: 5
cache:
  enabled: false
logging:
  level: warn
`,
		},
		{
			name: "toml",
			file: "wikisnp.toml",
			body: `
[fetch]
timeout = "30s"
max_retries = 5

[cache]
enabled = false

[logging]
level = "warn"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.body))
			require.NoError(t, err)

			assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout.Std())
			assert.Equal(t, 5, cfg.Fetch.MaxRetries)
			assert.False(t, cfg.Cache.Enabled)
			assert.Equal(t, "warn", cfg.Logging.Level)

			// Keys absent from the file keep their defaults
			assert.Equal(t, Default().Fetch.UserAgent, cfg.Fetch.UserAgent)
			assert.Equal(t, []int{200, 400}, cfg.Cache.CacheableStatus)
		})
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "wikisnp.yaml", "logging:\n  level: warn\n")
	t.Setenv("WIKISNP_LOGGING_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
		},
		{
			name:    "unsupported extension",
			path:    func(t *testing.T) string { return writeFile(t, "wikisnp.ini", "level=info") },
			wantErr: ErrUnsupportedFormat,
		},
		{
			name: "unknown yaml key",
			path: func(t *testing.T) string { return writeFile(t, "wikisnp.yaml", "fetch:\n  retries: 2\n") },
		},
		{
			name: "unknown toml key",
			path: func(t *testing.T) string { return writeFile(t, "wikisnp.toml", "[fetch]\nretries = 2\n") },
		},
		{
			name: "bad duration",
			path: func(t *testing.T) string { return writeFile(t, "wikisnp.yaml", "fetch:\n  timeout: later\n") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestOverride(t *testing.T) {
	cfg := Default()

	err := cfg.Override(Config{
		Logging: LogConfig{Level: "debug"},
		Metrics: MetricsConfig{TextfilePath: "/tmp/wikisnp.prom"},
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/wikisnp.prom", cfg.Metrics.TextfilePath)

	// Zero values leave existing settings alone
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout.Std())
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("ninety")))
}

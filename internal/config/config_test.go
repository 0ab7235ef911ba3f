package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no stray .env file
// is picked up, and clears the variables Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	for _, key := range []string{
		"STUDIO_CONFIG", "PORT", "STUDIO_ADDR", "API_BASE_URL", "PRESS_FEED_URL",
		"CACHE_DRIVER", "CACHE_DSN", "CACHE_TTL", "REFRESH_INTERVAL", "REQUESTS_PER_SECOND",
		"CONTACT_TO", "CONTACT_CC", "CAREERS_TO", "CONTEST_TO",
		"CAROUSEL_INTERVAL", "SHOWCASE_INTERVAL", "LOG_LEVEL", "INTRO_VIDEO_URL",
	} {
		if v, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, v) })
		}
	}
	return dir
}

// unsetAfter clears variables a .env file loaded into the process.
func unsetAfter(t *testing.T, keys ...string) {
	t.Cleanup(func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	})
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:5000/api", cfg.APIBaseURL)
	assert.Equal(t, DriverSQLite, cfg.Cache.Driver)
	assert.Equal(t, "studiofront.db", cfg.Cache.DSN)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 4*time.Second, cfg.Carousel.Interval)
	assert.Equal(t, 8*time.Second, cfg.Showcase.Interval)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLayering(t *testing.T) {
	dir := isolate(t)

	yamlPath := filepath.Join(dir, "studio.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
addr: ":9000"
api_base_url: https://api.studio.example/api
cache:
  driver: postgres
  dsn: postgres://localhost/studio
  ttl: 2m
carousel:
  interval: 6s
contact:
  to: [front@studio.example]
  cc: [office@studio.example]
log_level: warn
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CACHE_TTL=3m\nSHOWCASE_INTERVAL=12s\n"), 0o644))
	unsetAfter(t, "CACHE_TTL", "SHOWCASE_INTERVAL")

	t.Setenv("STUDIO_CONFIG", yamlPath)
	t.Setenv("SHOWCASE_INTERVAL", "10s")
	t.Setenv("CAREERS_TO", "jobs@studio.example, hr@studio.example")

	cfg, err := Load([]string{"--addr", ":9100", "--log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Addr, "flag beats yaml")
	assert.Equal(t, "https://api.studio.example/api", cfg.APIBaseURL)
	assert.Equal(t, DriverPostgres, cfg.Cache.Driver)
	assert.Equal(t, 3*time.Minute, cfg.Cache.TTL, ".env beats yaml")
	assert.Equal(t, 10*time.Second, cfg.Showcase.Interval, "environment beats .env")
	assert.Equal(t, 6*time.Second, cfg.Carousel.Interval)
	assert.Equal(t, []string{"front@studio.example"}, cfg.Contact.To)
	assert.Equal(t, []string{"office@studio.example"}, cfg.Contact.CC)
	assert.Equal(t, []string{"jobs@studio.example", "hr@studio.example"}, cfg.Careers.To)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestPortVariable(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "3000")
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)

	t.Setenv("STUDIO_ADDR", "127.0.0.1:4000")
	cfg, err = Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4000", cfg.Addr)
}

func TestMissingConfigFile(t *testing.T) {
	isolate(t)
	_, err := Load([]string{"--config", "does-not-exist.yaml"})
	assert.Error(t, err)
}

func TestBadEnvironmentValues(t *testing.T) {
	isolate(t)
	t.Setenv("REFRESH_INTERVAL", "often")
	_, err := Load(nil)
	assert.ErrorContains(t, err, "REFRESH_INTERVAL")

	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("REQUESTS_PER_SECOND", "lots")
	_, err = Load(nil)
	assert.ErrorContains(t, err, "REQUESTS_PER_SECOND")
}

func TestUnknownFlag(t *testing.T) {
	isolate(t)
	_, err := Load([]string{"--nope"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"relative base url", func(c *Config) { c.APIBaseURL = "/api" }, "api_base_url"},
		{"ftp base url", func(c *Config) { c.APIBaseURL = "ftp://example.com" }, "api_base_url"},
		{"unknown driver", func(c *Config) { c.Cache.Driver = "redis" }, "cache.driver"},
		{"missing dsn", func(c *Config) { c.Cache.DSN = "" }, "cache.dsn"},
		{"no cache needs no dsn", func(c *Config) { c.Cache.Driver = DriverNone; c.Cache.DSN = "" }, ""},
		{"short refresh", func(c *Config) { c.RefreshInterval = 10 * time.Second }, "refresh_interval"},
		{"zero carousel", func(c *Config) { c.Carousel.Interval = 0 }, "carousel.interval"},
		{"negative showcase", func(c *Config) { c.Showcase.Interval = -time.Second }, "showcase.interval"},
		{"no contact address", func(c *Config) { c.Contact.To = nil }, "contact.to"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad press feed", func(c *Config) { c.PressFeedURL = "not a url" }, "press_feed_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

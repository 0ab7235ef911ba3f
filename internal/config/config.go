// Package config loads the site's configuration.
//
// Values are layered, each layer overriding the one before:
//   - built-in defaults (Default)
//   - a YAML file named by --config or STUDIO_CONFIG
//   - a .env file (--env-file, default ".env"; a missing file is skipped)
//   - environment variables
//   - command-line flags
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Cache drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// MinRefreshInterval is the shortest accepted refresh_interval.
const MinRefreshInterval = time.Minute

// Config is the site configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// APIBaseURL is the root of the content API.
	APIBaseURL string `yaml:"api_base_url"`

	// PressFeedURL is an optional RSS or Atom feed for the press page.
	PressFeedURL string `yaml:"press_feed_url"`

	Cache CacheConfig `yaml:"cache"`

	// RefreshInterval is how often the background refresher re-fetches
	// every collection.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// RequestsPerSecond limits outbound API calls. Zero disables the limit.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	Contact MailConfig `yaml:"contact"`
	Careers MailConfig `yaml:"careers"`
	Contest MailConfig `yaml:"contest"`

	// IntroVideoURL is the landing page's intro clip. Empty skips the intro.
	IntroVideoURL string `yaml:"intro_video_url"`

	Carousel CarouselConfig `yaml:"carousel"`
	Showcase CarouselConfig `yaml:"showcase"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// CacheConfig selects the collection cache backend.
type CacheConfig struct {
	// Driver is sqlite, postgres or none.
	Driver string `yaml:"driver"`
	// DSN is the SQLite file path or the PostgreSQL connection URL.
	DSN string        `yaml:"dsn"`
	TTL time.Duration `yaml:"ttl"`
}

// MailConfig holds the recipients of one form.
type MailConfig struct {
	To []string `yaml:"to"`
	CC []string `yaml:"cc"`
}

// CarouselConfig configures an auto-advancing carousel.
type CarouselConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:       ":8080",
		APIBaseURL: "http://localhost:5000/api",
		Cache: CacheConfig{
			Driver: DriverSQLite,
			DSN:    "studiofront.db",
			TTL:    5 * time.Minute,
		},
		RefreshInterval:   10 * time.Minute,
		RequestsPerSecond: 10,
		Contact:           MailConfig{To: []string{"hello@studio.example"}},
		Careers:           MailConfig{To: []string{"careers@studio.example"}},
		Contest:           MailConfig{To: []string{"contest@studio.example"}},
		Carousel:          CarouselConfig{Interval: 4 * time.Second},
		Showcase:          CarouselConfig{Interval: 8 * time.Second},
		LogLevel:          "info",
	}
}

// Load builds the configuration from args (without the program name)
// and the process environment.
func Load(args []string) (*Config, error) {
	cfg := Default()

	fset := pflag.NewFlagSet("studiofront", pflag.ContinueOnError)
	configPath := fset.String("config", "", "path to a YAML config file (or STUDIO_CONFIG)")
	envFile := fset.String("env-file", ".env", "path to a .env file")
	addr := fset.String("addr", cfg.Addr, "HTTP listen address")
	apiBase := fset.String("api-base-url", cfg.APIBaseURL, "content API root")
	pressFeed := fset.String("press-feed-url", "", "press RSS/Atom feed")
	driver := fset.String("cache-driver", cfg.Cache.Driver, "cache backend: sqlite, postgres or none")
	dsn := fset.String("cache-dsn", cfg.Cache.DSN, "cache database path or URL")
	ttl := fset.Duration("cache-ttl", cfg.Cache.TTL, "how long cached collections are served")
	refresh := fset.Duration("refresh-interval", cfg.RefreshInterval, "background refresh period")
	rps := fset.Float64("requests-per-second", cfg.RequestsPerSecond, "outbound API rate limit")
	logLevel := fset.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", *envFile, err)
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("STUDIO_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if fset.Changed("addr") {
		cfg.Addr = *addr
	}
	if fset.Changed("api-base-url") {
		cfg.APIBaseURL = *apiBase
	}
	if fset.Changed("press-feed-url") {
		cfg.PressFeedURL = *pressFeed
	}
	if fset.Changed("cache-driver") {
		cfg.Cache.Driver = *driver
	}
	if fset.Changed("cache-dsn") {
		cfg.Cache.DSN = *dsn
	}
	if fset.Changed("cache-ttl") {
		cfg.Cache.TTL = *ttl
	}
	if fset.Changed("refresh-interval") {
		cfg.RefreshInterval = *refresh
	}
	if fset.Changed("requests-per-second") {
		cfg.RequestsPerSecond = *rps
	}
	if fset.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setList := func(key string, dst *[]string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = splitList(v)
		}
	}
	setDuration := func(key string, dst *time.Duration) error {
		v, ok := os.LookupEnv(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	// PORT is what most hosting platforms set.
	if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	setString("STUDIO_ADDR", &c.Addr)
	setString("API_BASE_URL", &c.APIBaseURL)
	setString("PRESS_FEED_URL", &c.PressFeedURL)
	setString("CACHE_DRIVER", &c.Cache.Driver)
	setString("CACHE_DSN", &c.Cache.DSN)
	setString("INTRO_VIDEO_URL", &c.IntroVideoURL)
	setString("LOG_LEVEL", &c.LogLevel)
	setList("CONTACT_TO", &c.Contact.To)
	setList("CONTACT_CC", &c.Contact.CC)
	setList("CAREERS_TO", &c.Careers.To)
	setList("CONTEST_TO", &c.Contest.To)

	for key, dst := range map[string]*time.Duration{
		"CACHE_TTL":         &c.Cache.TTL,
		"REFRESH_INTERVAL":  &c.RefreshInterval,
		"CAROUSEL_INTERVAL": &c.Carousel.Interval,
		"SHOWCASE_INTERVAL": &c.Showcase.Interval,
	} {
		if err := setDuration(key, dst); err != nil {
			return err
		}
	}

	if v, ok := os.LookupEnv("REQUESTS_PER_SECOND"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid REQUESTS_PER_SECOND: %w", err)
		}
		c.RequestsPerSecond = rps
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api_base_url %q must be an absolute http(s) URL", c.APIBaseURL)
	}
	if c.PressFeedURL != "" {
		if u, err := url.Parse(c.PressFeedURL); err != nil || u.Host == "" {
			return fmt.Errorf("config: press_feed_url %q is not a URL", c.PressFeedURL)
		}
	}
	switch c.Cache.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Cache.DSN == "" {
			return fmt.Errorf("config: cache.dsn is required for the %s driver", c.Cache.Driver)
		}
	case DriverNone:
	default:
		return fmt.Errorf("config: unknown cache.driver %q", c.Cache.Driver)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("config: cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.RefreshInterval < MinRefreshInterval {
		return fmt.Errorf("config: refresh_interval must be at least %s, got %s", MinRefreshInterval, c.RefreshInterval)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("config: requests_per_second must not be negative")
	}
	if c.Carousel.Interval <= 0 {
		return fmt.Errorf("config: carousel.interval must be positive, got %s", c.Carousel.Interval)
	}
	if c.Showcase.Interval <= 0 {
		return fmt.Errorf("config: showcase.interval must be positive, got %s", c.Showcase.Interval)
	}
	for name, m := range map[string]MailConfig{"contact": c.Contact, "careers": c.Careers, "contest": c.Contest} {
		if len(m.To) == 0 {
			return fmt.Errorf("config: %s.to needs at least one address", name)
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns LogLevel as a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/semv/internal/provider/content"
	"github.com/Digital-Shane/semv/internal/snippet"
)

// Config holds every persistent setting of the tool
type Config struct {
	// Content API
	ContentAPIKey     string `json:"content_api_key"`
	MovieEndpoint     string `json:"movie_endpoint"`
	SeriesEndpoint    string `json:"series_endpoint"`
	ContentQueryParam string `json:"content_query_param"`

	// Google Drive
	DriveAPIKey        string  `json:"drive_api_key"`
	DriveEndpoint      string  `json:"drive_endpoint"`
	DriveWorkers       int     `json:"drive_workers"`
	DriveRatePerSecond float64 `json:"drive_rate_per_second"`
	DrivePageSize      int64   `json:"drive_page_size"`

	CacheEnabled    bool `json:"cache_enabled"`
	CacheTTLMinutes int  `json:"cache_ttl_minutes"`
	PersistCache    bool `json:"persist_cache"`

	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
	LookupTimeoutSeconds  int `json:"lookup_timeout_seconds"`

	EnableLogging    bool `json:"enable_logging"`
	LogRetentionDays int  `json:"log_retention_days"`

	// Enrichment
	OMDBAPIKey       string `json:"omdb_api_key"`
	TMDBAPIKey       string `json:"tmdb_api_key"`
	TMDBLanguage     string `json:"tmdb_language"`
	TVDBAPIKey       string `json:"tvdb_api_key"`
	EnableEnrichment bool   `json:"enable_enrichment"`

	DefaultStyle string `json:"default_style"`
}

// Environment variables that override keys from the file.
const (
	EnvContentAPIKey = "SEMV_CONTENT_API_KEY"
	EnvDriveAPIKey   = "SEMV_DRIVE_API_KEY"
	EnvOMDBAPIKey    = "SEMV_OMDB_API_KEY"
	EnvTMDBAPIKey    = "SEMV_TMDB_API_KEY"
	EnvTVDBAPIKey    = "SEMV_TVDB_API_KEY"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MovieEndpoint:         content.DefaultMovieEndpoint,
		SeriesEndpoint:        content.DefaultSeriesEndpoint,
		ContentQueryParam:     content.DefaultQueryParam,
		DriveWorkers:          10,
		DriveRatePerSecond:    20,
		CacheEnabled:          true,
		CacheTTLMinutes:       60,
		RequestTimeoutSeconds: 30,
		LookupTimeoutSeconds:  300,
		EnableLogging:         true,
		LogRetentionDays:      30,
		TMDBLanguage:          "en-US",
		DefaultStyle:          string(snippet.StyleServer),
	}
}

// ConfigDir returns ~/.semv
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".semv"), nil
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// CachePath returns where the Drive metadata cache is persisted
func CachePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache", "drive_cache.gob"), nil
}

// Load reads the configuration from disk. Keys missing from the file keep
// their default values.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Blank strings are treated as missing
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.MovieEndpoint) == "" {
		cfg.MovieEndpoint = defaults.MovieEndpoint
	}
	if strings.TrimSpace(cfg.SeriesEndpoint) == "" {
		cfg.SeriesEndpoint = defaults.SeriesEndpoint
	}
	if strings.TrimSpace(cfg.ContentQueryParam) == "" {
		cfg.ContentQueryParam = defaults.ContentQueryParam
	}
	if cfg.TMDBLanguage == "" {
		cfg.TMDBLanguage = defaults.TMDBLanguage
	}
	if cfg.DefaultStyle == "" {
		cfg.DefaultStyle = defaults.DefaultStyle
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}

	return cfg, nil
}

// ApplyEnv overrides API keys from the environment.
func (cfg *Config) ApplyEnv() {
	for env, dst := range map[string]*string{
		EnvContentAPIKey: &cfg.ContentAPIKey,
		EnvDriveAPIKey:   &cfg.DriveAPIKey,
		EnvOMDBAPIKey:    &cfg.OMDBAPIKey,
		EnvTMDBAPIKey:    &cfg.TMDBAPIKey,
		EnvTVDBAPIKey:    &cfg.TVDBAPIKey,
	} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
}

// Save writes the configuration to disk
func (cfg *Config) Save() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	// The file holds API keys
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks value ranges.
func (cfg *Config) Validate() error {
	switch {
	case cfg.DriveWorkers < 0:
		return fmt.Errorf("drive_workers must be 0 or more")
	case cfg.DriveRatePerSecond < 0:
		return fmt.Errorf("drive_rate_per_second must be 0 or more")
	case cfg.DrivePageSize < 0 || cfg.DrivePageSize > 1000:
		return fmt.Errorf("drive_page_size must be between 0 and 1000")
	case cfg.CacheTTLMinutes < 0:
		return fmt.Errorf("cache_ttl_minutes must be 0 or more")
	case cfg.RequestTimeoutSeconds < 0:
		return fmt.Errorf("request_timeout_seconds must be 0 or more")
	case cfg.LookupTimeoutSeconds < 0:
		return fmt.Errorf("lookup_timeout_seconds must be 0 or more")
	case cfg.LogRetentionDays < 0:
		return fmt.Errorf("log_retention_days must be 0 or more")
	}
	if _, err := snippet.ParseStyle(cfg.DefaultStyle); err != nil {
		return fmt.Errorf("default_style: %w", err)
	}
	return nil
}

// RequestTimeout returns the timeout of a single HTTP request, zero for none.
func (cfg *Config) RequestTimeout() time.Duration {
	return time.Duration(cfg.RequestTimeoutSeconds) * time.Second
}

// LookupTimeout bounds a whole lookup cycle, including every listing page
// and batch fetch. Zero means no limit.
func (cfg *Config) LookupTimeout() time.Duration {
	return time.Duration(cfg.LookupTimeoutSeconds) * time.Second
}

// CacheTTL returns how long Drive metadata stays cached.
func (cfg *Config) CacheTTL() time.Duration {
	return time.Duration(cfg.CacheTTLMinutes) * time.Minute
}

type field struct {
	get    func(*Config) string
	set    func(*Config, string) error
	secret bool
}

func stringField(ptr func(*Config) *string, secret bool) field {
	return field{
		get:    func(c *Config) string { return *ptr(c) },
		set:    func(c *Config, v string) error { *ptr(c) = strings.TrimSpace(v); return nil },
		secret: secret,
	}
}

func intField(ptr func(*Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			*ptr(c) = n
			return nil
		},
	}
}

func boolField(ptr func(*Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*ptr(c) = b
			return nil
		},
	}
}

var fields = map[string]field{
	"content_api_key":     stringField(func(c *Config) *string { return &c.ContentAPIKey }, true),
	"movie_endpoint":      stringField(func(c *Config) *string { return &c.MovieEndpoint }, false),
	"series_endpoint":     stringField(func(c *Config) *string { return &c.SeriesEndpoint }, false),
	"content_query_param": stringField(func(c *Config) *string { return &c.ContentQueryParam }, false),
	"drive_api_key":       stringField(func(c *Config) *string { return &c.DriveAPIKey }, true),
	"drive_endpoint":      stringField(func(c *Config) *string { return &c.DriveEndpoint }, false),
	"drive_workers":       intField(func(c *Config) *int { return &c.DriveWorkers }),
	"drive_rate_per_second": {
		get: func(c *Config) string { return strconv.FormatFloat(c.DriveRatePerSecond, 'f', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("expected a number, got %q", v)
			}
			c.DriveRatePerSecond = f
			return nil
		},
	},
	"drive_page_size": {
		get: func(c *Config) string { return strconv.FormatInt(c.DrivePageSize, 10) },
		set: func(c *Config, v string) error {
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return fmt.Errorf("expected an integer, got %q", v)
			}
			c.DrivePageSize = n
			return nil
		},
	},
	"cache_enabled":           boolField(func(c *Config) *bool { return &c.CacheEnabled }),
	"cache_ttl_minutes":       intField(func(c *Config) *int { return &c.CacheTTLMinutes }),
	"persist_cache":           boolField(func(c *Config) *bool { return &c.PersistCache }),
	"request_timeout_seconds": intField(func(c *Config) *int { return &c.RequestTimeoutSeconds }),
	"lookup_timeout_seconds":  intField(func(c *Config) *int { return &c.LookupTimeoutSeconds }),
	"enable_logging":          boolField(func(c *Config) *bool { return &c.EnableLogging }),
	"log_retention_days":      intField(func(c *Config) *int { return &c.LogRetentionDays }),
	"omdb_api_key":            stringField(func(c *Config) *string { return &c.OMDBAPIKey }, true),
	"tmdb_api_key":            stringField(func(c *Config) *string { return &c.TMDBAPIKey }, true),
	"tmdb_language":           stringField(func(c *Config) *string { return &c.TMDBLanguage }, false),
	"tvdb_api_key":            stringField(func(c *Config) *string { return &c.TVDBAPIKey }, true),
	"enable_enrichment":       boolField(func(c *Config) *bool { return &c.EnableEnrichment }),
	"default_style":           stringField(func(c *Config) *string { return &c.DefaultStyle }, false),
}

// Keys lists the settable keys in alphabetical order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set parses value into key. The config is validated afterwards and left
// unchanged on error.
func (cfg *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}

	next := *cfg
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

// Get returns the value of key as text. Secrets are masked unless reveal is
// set.
func (cfg *Config) Get(key string, reveal bool) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	v := f.get(cfg)
	if f.secret && !reveal {
		v = Mask(v)
	}
	return v, nil
}

// Mask hides all but the last four characters of a secret.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

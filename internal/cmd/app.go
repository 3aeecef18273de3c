package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Digital-Shane/semv/internal/config"
	semvlog "github.com/Digital-Shane/semv/internal/log"
	"github.com/Digital-Shane/semv/internal/lookup"
	"github.com/Digital-Shane/semv/internal/provider"
	"github.com/Digital-Shane/semv/internal/provider/content"
	"github.com/Digital-Shane/semv/internal/provider/drive"
	"github.com/Digital-Shane/semv/internal/provider/omdb"
	"github.com/Digital-Shane/semv/internal/provider/tmdb"
	"github.com/Digital-Shane/semv/internal/provider/tvdb"
	"github.com/patrickmn/go-cache"
)

// app wires the clients for one CLI invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	drive   *drive.Client
	session *lookup.Session

	cachePath string
}

// loadConfig reads the config file and applies environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, recordHistory, skipFiles bool) (*app, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout()}

	contentClient := content.New(content.Options{
		APIKey:         cfg.ContentAPIKey,
		MovieEndpoint:  cfg.MovieEndpoint,
		SeriesEndpoint: cfg.SeriesEndpoint,
		QueryParam:     cfg.ContentQueryParam,
		HTTPClient:     httpClient,
		Logger:         logger.With("component", "content"),
	})

	a := &app{cfg: cfg, logger: logger}

	var metaCache *cache.Cache
	if cfg.CacheEnabled {
		metaCache = drive.NewCache(cfg.CacheTTL())
		if cfg.PersistCache {
			path, err := config.CachePath()
			if err != nil {
				return nil, err
			}
			loaded, err := drive.LoadCache(path, cfg.CacheTTL())
			if err != nil {
				logger.Warn("ignoring unreadable drive cache", "path", path, "error", err)
			}
			metaCache = loaded
			a.cachePath = path
		}
	}

	workers := cfg.DriveWorkers
	if workers == 0 {
		workers = -1
	}
	driveClient, err := drive.New(ctx, drive.Options{
		APIKey:        cfg.DriveAPIKey,
		Endpoint:      cfg.DriveEndpoint,
		HTTPClient:    httpClient,
		PageSize:      cfg.DrivePageSize,
		Workers:       workers,
		RatePerSecond: cfg.DriveRatePerSecond,
		Cache:         metaCache,
		Logger:        logger.With("component", "drive"),
	})
	if err != nil {
		return nil, err
	}
	a.drive = driveClient

	opts := lookup.Options{
		Content:   contentClient,
		Drive:     driveClient,
		Logger:    logger.With("component", "lookup"),
		Timeout:   cfg.LookupTimeout(),
		SkipFiles: skipFiles,
	}
	if recordHistory {
		opts.Recorder = semvlog.SessionRecorder{}
	}
	if registry := newRegistry(cfg, httpClient, logger); registry != nil {
		opts.Enricher = registry
	}
	a.session = lookup.New(opts)

	return a, nil
}

// newRegistry registers the enrichment providers that have keys. It returns
// nil when enrichment is off or no provider could be enabled.
func newRegistry(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) *provider.Registry {
	if !cfg.EnableEnrichment {
		return nil
	}

	registry := provider.NewRegistry()
	candidates := []struct {
		p      provider.Provider
		config map[string]interface{}
	}{
		{
			p: tmdb.New(),
			config: map[string]interface{}{
				"api_key":           cfg.TMDBAPIKey,
				"language":          cfg.TMDBLanguage,
				"cache_enabled":     cfg.CacheEnabled,
				"cache_ttl_minutes": cfg.CacheTTLMinutes,
			},
		},
		{
			p:      tvdb.New(),
			config: map[string]interface{}{"api_key": cfg.TVDBAPIKey},
		},
		{
			p:      omdb.New(httpClient),
			config: map[string]interface{}{"api_key": cfg.OMDBAPIKey},
		},
	}

	enabled := 0
	for _, c := range candidates {
		name := c.p.Name()
		if err := registry.Register(name, c.p, c.p.Capabilities().Priority); err != nil {
			logger.Warn("provider registration failed", "provider", name, "error", err)
			continue
		}
		if key, _ := c.config["api_key"].(string); key == "" {
			continue
		}
		if err := registry.Configure(name, c.config); err != nil {
			logger.Warn("provider configuration failed", "provider", name, "error", err)
			continue
		}
		if err := registry.Enable(name); err != nil {
			logger.Warn("provider could not be enabled", "provider", name, "error", err)
			continue
		}
		enabled++
	}

	if enabled == 0 {
		logger.Warn("enrichment is enabled but no provider has an API key")
		return nil
	}
	return registry
}

// close persists the Drive cache when configured.
func (a *app) close() {
	if a.cachePath == "" {
		return
	}
	if err := a.drive.SaveCache(a.cachePath); err != nil {
		a.logger.Warn("failed to save drive cache", "path", a.cachePath, "error", err)
	}
}

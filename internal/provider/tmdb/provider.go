package tmdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Digital-Shane/semv/internal/provider"
	"github.com/patrickmn/go-cache"
	"github.com/ryanbradynd05/go-tmdb"
	"golang.org/x/time/rate"
)

const (
	providerName = "tmdb"

	// TMDB allows roughly 40 requests per 10 seconds.
	requestsPerWindow = 38
	requestWindow     = 10 * time.Second
)

// Provider implements the provider.Provider interface for TMDB
type Provider struct {
	client   TMDBClient
	cache    *cache.Cache
	language string
	apiKey   string
	limiter  *rate.Limiter
	config   map[string]interface{}
}

// TMDBClient is the subset of *tmdb.TMDb the provider calls.
type TMDBClient interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	SearchTv(name string, options map[string]string) (*tmdb.TvSearchResults, error)
	GetMovieInfo(id int, options map[string]string) (*tmdb.Movie, error)
	GetTvInfo(id int, options map[string]string) (*tmdb.TV, error)
}

// New creates a new TMDB provider instance
func New() *Provider {
	return &Provider{
		language: "en-US",
		limiter:  rate.NewLimiter(rate.Every(requestWindow/requestsPerWindow), requestsPerWindow),
		config:   make(map[string]interface{}),
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// Description returns the provider description
func (p *Provider) Description() string {
	return "The Movie Database (TMDB) release years, overviews and ratings"
}

// Capabilities returns what this provider can do
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		ContentTypes: []provider.ContentType{
			provider.ContentMovie,
			provider.ContentSeries,
		},
		RequiresAuth: true,
		Priority:     100,
	}
}

// Configure applies configuration to the provider. Recognised keys are
// api_key (required), language, cache_enabled and cache_ttl_minutes.
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKey, _ := config["api_key"].(string)
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("api_key is required")
	}

	p.config = config
	p.apiKey = apiKey

	if language, ok := config["language"].(string); ok && language != "" {
		p.language = language
	} else {
		p.language = "en-US"
	}

	if p.client == nil {
		p.client = tmdb.Init(tmdb.Config{APIKey: p.apiKey})
	}

	cacheEnabled := true
	if enabled, ok := config["cache_enabled"].(bool); ok {
		cacheEnabled = enabled
	}
	p.cache = nil
	if cacheEnabled {
		ttl := 24 * time.Hour
		if minutes, ok := config["cache_ttl_minutes"].(int); ok && minutes > 0 {
			ttl = time.Duration(minutes) * time.Minute
		}
		p.cache = cache.New(ttl, 10*time.Minute)
	}

	return nil
}

// SetClient replaces the TMDB client. Used by tests.
func (p *Provider) SetClient(client TMDBClient) {
	p.client = client
}

// wait blocks for the rate limiter and reports context cancellation.
func (p *Provider) wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeRateLimited,
			Message:  "TMDB rate limit wait failed",
			Retry:    true,
			Err:      err,
		}
	}
	return nil
}

// mapError maps TMDB errors to provider errors
func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "invalid api key") {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "TMDB authentication failed",
			Err:      err,
		}
	}
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    "TMDB rate limit exceeded",
			Retry:      true,
			RetryAfter: 10,
		}
	}
	if strings.Contains(errStr, "503") || strings.Contains(errStr, "unavailable") {
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRequestFailed,
			Message:    "TMDB service unavailable",
			Retry:      true,
			RetryAfter: 30,
		}
	}

	return &provider.ProviderError{
		Provider: providerName,
		Code:     provider.CodeRequestFailed,
		Message:  "TMDB error",
		Err:      err,
	}
}

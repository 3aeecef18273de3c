package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Digital-Shane/omdb"
	"github.com/Digital-Shane/semv/internal/provider"
)

const providerName = "omdb"

// Provider implements the provider.Provider interface for OMDb.
type Provider struct {
	client     *omdb.Client
	httpClient *http.Client
	apiKey     string
	config     map[string]interface{}
}

// New creates a new OMDb provider instance. A nil httpClient gets a default
// client with a ten second timeout when the provider is configured.
func New(httpClient *http.Client) *Provider {
	return &Provider{
		httpClient: httpClient,
		config:     make(map[string]interface{}),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "Open Movie Database (OMDb) ratings and plot summaries"
}

// Capabilities returns what this provider can handle.
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		ContentTypes: []provider.ContentType{
			provider.ContentMovie,
			provider.ContentSeries,
		},
		RequiresAuth: true,
		Priority:     90,
	}
}

// Configure applies configuration to the provider.
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKeyRaw, ok := config["api_key"].(string)
	if !ok {
		return fmt.Errorf("api_key is required")
	}

	apiKey := strings.TrimSpace(apiKeyRaw)
	if apiKey == "" {
		return fmt.Errorf("api_key is required")
	}

	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	p.apiKey = apiKey
	p.config = config
	p.client = omdb.NewClient(p.apiKey, p.httpClient)

	return nil
}

// Fetch looks up a title and returns its year, plot and rating.
func (p *Provider) Fetch(ctx context.Context, request provider.FetchRequest) (*provider.Metadata, error) {
	if p.client == nil || p.apiKey == "" {
		return nil, fmt.Errorf("provider not configured")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch request.ContentType {
	case provider.ContentMovie:
		return p.fetchMovie(ctx, request)
	case provider.ContentSeries:
		return p.fetchSeries(ctx, request)
	default:
		return nil, provider.NewError(providerName, provider.CodeInvalidInput,
			fmt.Sprintf("unsupported content type: %s", request.ContentType), nil)
	}
}

func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "missing omdb api key"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "OMDb authentication failed: " + msg,
		}
	case strings.Contains(lower, "not found"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  msg,
		}
	case strings.Contains(lower, "limit reached"), strings.Contains(lower, "too many requests"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    msg,
			Retry:      true,
			RetryAfter: 5,
		}
	default:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeRequestFailed,
			Message:  msg,
			Err:      err,
		}
	}
}

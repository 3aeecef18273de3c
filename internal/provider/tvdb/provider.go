// Package tvdb enriches series lookups with TheTVDB data.
package tvdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Digital-Shane/semv/internal/provider"
	tvdbapi "github.com/dashotv/tvdb"
	"github.com/dashotv/tvdb/openapi/models/operations"
)

const providerName = "tvdb"

// TVDBClient captures the dashotv client methods used by this provider.
type TVDBClient interface {
	GetSearchResults(request operations.GetSearchResultsRequest) (*tvdbapi.GetSearchResultsResponse, error)
	GetSeriesExtended(id float64, meta *operations.GetSeriesExtendedQueryParamMeta, short *bool) (*tvdbapi.GetSeriesExtendedResponse, error)
}

// Provider implements the provider.Provider interface for TVDB.
type Provider struct {
	client TVDBClient
	apiKey string
	config map[string]interface{}
}

// New creates a new TVDB provider instance.
func New() *Provider {
	return &Provider{config: make(map[string]interface{})}
}

// SetClient replaces the API client. Configure keeps a client set this way
// instead of logging in.
func (p *Provider) SetClient(client TVDBClient) {
	p.client = client
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "TheTVDB (TVDB) series metadata"
}

// Capabilities returns what this provider can handle.
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		ContentTypes: []provider.ContentType{provider.ContentSeries},
		RequiresAuth: true,
		Priority:     95,
	}
}

// Configure logs in with the API key.
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKeyRaw, ok := config["api_key"].(string)
	if !ok {
		return fmt.Errorf("api_key is required")
	}

	apiKey := strings.TrimSpace(apiKeyRaw)
	if apiKey == "" {
		return fmt.Errorf("api_key is required")
	}

	if p.client == nil {
		client, err := tvdbapi.Login(apiKey)
		if err != nil {
			return p.mapError(err)
		}
		p.client = client
	}

	p.apiKey = apiKey
	p.config = config
	return nil
}

// Fetch looks up a series by title.
func (p *Provider) Fetch(ctx context.Context, request provider.FetchRequest) (*provider.Metadata, error) {
	if p.client == nil || p.apiKey == "" {
		return nil, fmt.Errorf("provider not configured")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if request.ContentType != provider.ContentSeries {
		return nil, provider.NewError(providerName, provider.CodeInvalidInput,
			fmt.Sprintf("unsupported content type: %s", request.ContentType), nil)
	}
	return p.fetchSeries(ctx, request)
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
	case strings.Contains(lower, "401"), strings.Contains(lower, "unauthorized"), strings.Contains(lower, "apikey"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeAuthFailed, Message: "TVDB authentication failed: " + msg}
	case strings.Contains(lower, "429"), strings.Contains(lower, "too many"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeRateLimited, Message: msg, Retry: true, RetryAfter: 5}
	case strings.Contains(lower, "404"), strings.Contains(lower, "not found"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeNotFound, Message: msg}
	case strings.Contains(lower, "503"), strings.Contains(lower, "unavailable"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeRequestFailed, Message: msg, Retry: true, RetryAfter: 30, Err: err}
	default:
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeRequestFailed, Message: msg, Err: err}
	}
}

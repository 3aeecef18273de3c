// Package content queries the movie and series post APIs that map a post ID to
// its title and Drive file IDs.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Digital-Shane/semv/internal/provider"
)

const providerName = "content"

const (
	DefaultMovieEndpoint  = "https://links.modpro.blog/wp-json/wp/clenc/files"
	DefaultSeriesEndpoint = "https://episodes.modpro.blog/wp-json/wp/clenc/files"
	DefaultQueryParam     = "files"

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 4 << 20
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	APIKey         string
	MovieEndpoint  string
	SeriesEndpoint string
	QueryParam     string
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

// Client looks up posts on the content API. It makes exactly one request per
// lookup and never retries.
type Client struct {
	httpClient *http.Client
	apiKey     string
	endpoints  map[provider.ContentType]string
	queryParam string
	logger     *slog.Logger
}

// New creates a content lookup client.
func New(opts Options) *Client {
	c := &Client{
		httpClient: opts.HTTPClient,
		apiKey:     strings.TrimSpace(opts.APIKey),
		queryParam: opts.QueryParam,
		logger:     opts.Logger,
		endpoints: map[provider.ContentType]string{
			provider.ContentMovie:  opts.MovieEndpoint,
			provider.ContentSeries: opts.SeriesEndpoint,
		},
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.queryParam == "" {
		c.queryParam = DefaultQueryParam
	}
	if c.endpoints[provider.ContentMovie] == "" {
		c.endpoints[provider.ContentMovie] = DefaultMovieEndpoint
	}
	if c.endpoints[provider.ContentSeries] == "" {
		c.endpoints[provider.ContentSeries] = DefaultSeriesEndpoint
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Endpoint returns the base URL used for a content type.
func (c *Client) Endpoint(ct provider.ContentType) (string, bool) {
	ep, ok := c.endpoints[ct]
	return ep, ok
}

// Lookup fetches the post identified by id and normalizes the response.
func (c *Client) Lookup(ctx context.Context, ct provider.ContentType, id string) (provider.ContentResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return provider.ContentResult{}, provider.NewError(providerName, provider.CodeInvalidInput, "post ID is required", nil)
	}

	req, err := c.buildRequest(ctx, ct, id)
	if err != nil {
		return provider.ContentResult{}, err
	}

	c.logger.Debug("content lookup", "type", ct, "id", id, "endpoint", req.URL.Host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return provider.ContentResult{}, c.mapError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return provider.ContentResult{}, c.mapError(err)
	}

	if err := checkStatus(resp); err != nil {
		return provider.ContentResult{}, err
	}

	result, err := Normalize(body)
	if err != nil {
		c.logger.Debug("content lookup failed", "type", ct, "id", id, "error", err)
		return provider.ContentResult{}, err
	}
	result.Source = string(ct)

	c.logger.Debug("content lookup done", "type", ct, "id", id, "title", result.Title, "files", len(result.FileIDs))
	return result, nil
}

// buildRequest constructs the GET request with the API key and post ID as
// query parameters.
func (c *Client) buildRequest(ctx context.Context, ct provider.ContentType, id string) (*http.Request, error) {
	endpoint, ok := c.endpoints[ct]
	if !ok {
		return nil, provider.NewError(providerName, provider.CodeInvalidInput, fmt.Sprintf("content type %q has no lookup endpoint", ct), nil)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid %s endpoint %q: %w", ct, endpoint, err)
	}

	values := u.Query()
	values.Set("api_key", c.apiKey)
	values.Set(c.queryParam, id)
	u.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "content API rejected the API key",
		}
	case resp.StatusCode == http.StatusNotFound:
		return notFound("HTTP 404")
	case resp.StatusCode == http.StatusTooManyRequests:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeRateLimited,
			Message:  "content API rate limit exceeded",
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeRequestFailed,
			Message:  fmt.Sprintf("content API returned %s", resp.Status),
		}
	}
	return nil
}

func (c *Client) mapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return provider.NewError(providerName, provider.CodeRequestFailed, "content API request failed", err)
}

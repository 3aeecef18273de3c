// Package drive resolves Google Drive files and folders into file metadata
// using an API key. Folders are enumerated with a sequential pagination loop
// and batches of file IDs are fetched concurrently.
package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Digital-Shane/semv/internal/provider"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const providerName = "drive"

const (
	metaFields googleapi.Field = "id,name,mimeType,size,webContentLink"
	listFields googleapi.Field = "nextPageToken, files(id,name,mimeType,size,webContentLink)"

	defaultWorkers = 10
)

// Options configures a Client.
type Options struct {
	APIKey string

	// Endpoint overrides the Drive API base URL.
	Endpoint   string
	HTTPClient *http.Client

	// Service is used as-is when set; Endpoint and HTTPClient are ignored.
	Service *drive.Service

	PageSize      int64   // 0 uses the API default
	Workers       int     // concurrent batch fetches, 0 uses the default, negative is unbounded
	RatePerSecond float64 // 0 disables pacing

	// Cache holds DriveFileMeta values keyed by file ID. Nil disables caching.
	Cache *cache.Cache

	Logger *slog.Logger
}

// Client talks to the Drive v3 API.
type Client struct {
	svc      *drive.Service
	apiKey   string
	pageSize int64
	workers  int
	limiter  *rate.Limiter
	cache    *cache.Cache
	flight   singleflight.Group
	logger   *slog.Logger
}

// New creates a Drive client.
func New(ctx context.Context, opts Options) (*Client, error) {
	svc := opts.Service
	if svc == nil {
		httpClient := opts.HTTPClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: 30 * time.Second}
		}
		clientOpts := []option.ClientOption{
			option.WithoutAuthentication(),
			option.WithHTTPClient(httpClient),
		}
		if opts.Endpoint != "" {
			clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
		}

		var err error
		svc, err = drive.NewService(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create drive service: %w", err)
		}
	}

	c := &Client{
		svc:      svc,
		apiKey:   strings.TrimSpace(opts.APIKey),
		pageSize: opts.PageSize,
		workers:  opts.Workers,
		cache:    opts.Cache,
		logger:   opts.Logger,
	}
	if c.workers == 0 {
		c.workers = defaultWorkers
	}
	if opts.RatePerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), max(1, c.workers))
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

// HasKey reports whether an API key is configured.
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

// Resolve fetches the item behind id. A folder is expanded into its children;
// a single file becomes a one-element result. The FileInfoSet is built from
// the same payloads, so no second round trip is needed.
func (c *Client) Resolve(ctx context.Context, id string) (provider.ContentResult, provider.FileInfoSet, error) {
	meta, err := c.GetMeta(ctx, id)
	if err != nil {
		return provider.ContentResult{}, nil, err
	}

	if !meta.IsFolder() {
		result := provider.ContentResult{
			Title:   meta.Name,
			FileIDs: []string{meta.ID},
			Source:  providerName,
		}
		return result, provider.FileInfoSet{meta.ID: meta}, nil
	}

	children, err := c.ListChildren(ctx, meta.ID)
	if err != nil {
		return provider.ContentResult{}, nil, err
	}
	if len(children) == 0 {
		return provider.ContentResult{}, nil, provider.NewError(providerName, provider.CodeEmptyFolder, fmt.Sprintf("folder %s has no files", meta.ID), nil)
	}

	result := provider.ContentResult{
		Title:   meta.Name,
		FileIDs: make([]string, 0, len(children)),
		Source:  providerName,
	}
	files := make(provider.FileInfoSet, len(children))
	for _, child := range children {
		result.FileIDs = append(result.FileIDs, child.ID)
		files[child.ID] = child
	}

	c.logger.Debug("resolved drive folder", "id", meta.ID, "name", meta.Name, "files", len(children))
	return result, files, nil
}

// GetMeta fetches the metadata of a single file or folder.
func (c *Client) GetMeta(ctx context.Context, id string) (provider.DriveFileMeta, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return provider.DriveFileMeta{}, provider.NewError(providerName, provider.CodeInvalidInput, "drive ID is required", nil)
	}

	if meta, ok := c.cached(id); ok {
		return meta, nil
	}

	if err := c.wait(ctx); err != nil {
		return provider.DriveFileMeta{}, err
	}

	f, err := c.svc.Files.Get(id).
		SupportsAllDrives(true).
		Fields(metaFields).
		Context(ctx).
		Do(c.callOptions(googleapi.QueryParameter("includeItemsFromAllDrives", "true"))...)
	if err != nil {
		return provider.DriveFileMeta{}, c.mapError(provider.CodeMetadataFetch, "fetching metadata for "+id, err)
	}

	meta := toMeta(f, id)
	c.store(meta)
	return meta, nil
}

func (c *Client) callOptions(extra ...googleapi.CallOption) []googleapi.CallOption {
	opts := make([]googleapi.CallOption, 0, len(extra)+1)
	if c.apiKey != "" {
		opts = append(opts, googleapi.QueryParameter("key", c.apiKey))
	}
	return append(opts, extra...)
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) mapError(code provider.ErrorCode, message string, err error) error {
	if isContextErr(err) {
		return err
	}

	pe := provider.NewError(providerName, code, message, err)
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusTooManyRequests:
			pe.Retry = true
			pe.RetryAfter = 10
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			pe.Retry = true
			pe.RetryAfter = 30
		}
	}
	return pe
}

func toMeta(f *drive.File, fallbackID string) provider.DriveFileMeta {
	meta := provider.DriveFileMeta{
		ID:             f.Id,
		Name:           f.Name,
		Size:           f.Size,
		MimeType:       f.MimeType,
		WebContentLink: f.WebContentLink,
	}
	if meta.ID == "" {
		meta.ID = fallbackID
	}
	return meta
}

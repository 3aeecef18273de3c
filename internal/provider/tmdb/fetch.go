package tmdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Digital-Shane/semv/internal/provider"
	"github.com/patrickmn/go-cache"
	"github.com/ryanbradynd05/go-tmdb"
)

// Fetch retrieves metadata based on the request
func (p *Provider) Fetch(ctx context.Context, request provider.FetchRequest) (*provider.Metadata, error) {
	if p.client == nil || p.apiKey == "" {
		return nil, fmt.Errorf("provider not configured")
	}
	if strings.TrimSpace(request.Title) == "" {
		return nil, provider.NewError(providerName, provider.CodeInvalidInput, "a title is required", nil)
	}

	cacheKey := p.buildCacheKey(request)
	if p.cache != nil {
		if cached, found := p.cache.Get(cacheKey); found {
			if meta, ok := cached.(*provider.Metadata); ok {
				return meta, nil
			}
		}
	}

	var metadata *provider.Metadata
	var err error

	switch request.ContentType {
	case provider.ContentMovie:
		metadata, err = p.fetchMovie(ctx, request)
	case provider.ContentSeries:
		metadata, err = p.fetchSeries(ctx, request)
	default:
		return nil, provider.NewError(providerName, provider.CodeInvalidInput,
			fmt.Sprintf("unsupported content type: %s", request.ContentType), nil)
	}
	if err != nil {
		return nil, err
	}

	if p.cache != nil && metadata != nil {
		p.cache.Set(cacheKey, metadata, cache.DefaultExpiration)
	}
	return metadata, nil
}

func (p *Provider) fetchMovie(ctx context.Context, request provider.FetchRequest) (*provider.Metadata, error) {
	options := map[string]string{
		"language": p.getLanguage(request),
	}
	if request.Year != "" {
		options["year"] = request.Year
	}

	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	results, err := p.client.SearchMovie(request.Title, options)
	if err != nil {
		return nil, p.mapError(err)
	}
	if results == nil || len(results.Results) == 0 {
		return nil, provider.NewError(providerName, provider.CodeNotFound,
			fmt.Sprintf("no results found for movie: %s", request.Title), nil)
	}

	movie := results.Results[0]

	// Full details carry genres and the IMDb ID; the search hit is enough
	// when that call fails.
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	full, err := p.client.GetMovieInfo(movie.ID, options)
	if err != nil || full == nil {
		return movieShortToMetadata(&movie), nil
	}
	return movieToMetadata(full), nil
}

func (p *Provider) fetchSeries(ctx context.Context, request provider.FetchRequest) (*provider.Metadata, error) {
	options := map[string]string{
		"language":           p.getLanguage(request),
		"append_to_response": "external_ids",
	}

	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	results, err := p.client.SearchTv(request.Title, options)
	if err != nil {
		return nil, p.mapError(err)
	}
	if results == nil || len(results.Results) == 0 {
		return nil, provider.NewError(providerName, provider.CodeNotFound,
			fmt.Sprintf("no results found for series: %s", request.Title), nil)
	}

	show := results.Results[0]

	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	full, err := p.client.GetTvInfo(show.ID, options)
	if err != nil || full == nil {
		meta := newMetadata(provider.ContentSeries, show.Name, yearOf(show.FirstAirDate), "", show.VoteAverage, 0.8)
		meta.IDs["tmdb_id"] = strconv.Itoa(show.ID)
		return meta, nil
	}
	return tvToMetadata(full), nil
}

func movieShortToMetadata(movie *tmdb.MovieShort) *provider.Metadata {
	meta := newMetadata(provider.ContentMovie, movie.Title, yearOf(movie.ReleaseDate), movie.Overview, movie.VoteAverage, 0.8)
	meta.IDs["tmdb_id"] = strconv.Itoa(movie.ID)
	return meta
}

func movieToMetadata(movie *tmdb.Movie) *provider.Metadata {
	meta := newMetadata(provider.ContentMovie, movie.Title, yearOf(movie.ReleaseDate), movie.Overview, movie.VoteAverage, 0.95)
	for _, g := range movie.Genres {
		meta.Core.Genres = append(meta.Core.Genres, g.Name)
	}
	if len(meta.Core.Genres) > 0 {
		meta.Sources["genres"] = providerName
	}
	meta.IDs["tmdb_id"] = strconv.Itoa(movie.ID)
	if movie.ImdbID != "" {
		meta.IDs["imdb_id"] = movie.ImdbID
	}
	return meta
}

func tvToMetadata(show *tmdb.TV) *provider.Metadata {
	meta := newMetadata(provider.ContentSeries, show.Name, yearOf(show.FirstAirDate), show.Overview, show.VoteAverage, 0.95)
	for _, g := range show.Genres {
		meta.Core.Genres = append(meta.Core.Genres, g.Name)
	}
	if len(meta.Core.Genres) > 0 {
		meta.Sources["genres"] = providerName
	}
	meta.IDs["tmdb_id"] = strconv.Itoa(show.ID)
	if show.ExternalIDs != nil && show.ExternalIDs.ImdbID != "" {
		meta.IDs["imdb_id"] = show.ExternalIDs.ImdbID
	}
	return meta
}

func newMetadata(ct provider.ContentType, title, year, overview string, rating float32, confidence float64) *provider.Metadata {
	meta := &provider.Metadata{
		Core: provider.CoreMetadata{
			Title:       title,
			Year:        year,
			ContentType: ct,
			Overview:    overview,
			Rating:      rating,
		},
		Sources: map[string]string{
			"title":  providerName,
			"year":   providerName,
			"rating": providerName,
		},
		IDs:        make(map[string]string),
		Confidence: confidence,
	}
	if overview != "" {
		meta.Sources["overview"] = providerName
	}
	return meta
}

// yearOf returns the year prefix of a YYYY-MM-DD date.
func yearOf(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

func (p *Provider) buildCacheKey(request provider.FetchRequest) string {
	parts := []string{
		string(request.ContentType),
		strings.ToLower(strings.TrimSpace(request.Title)),
		request.Year,
		p.getLanguage(request),
	}
	return strings.Join(parts, ":")
}

func (p *Provider) getLanguage(request provider.FetchRequest) string {
	if request.Language != "" {
		return request.Language
	}
	return p.language
}

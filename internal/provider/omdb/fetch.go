package omdb

import (
	"context"
	"strings"

	"github.com/Digital-Shane/omdb"
	"github.com/Digital-Shane/semv/internal/provider"
)

func (p *Provider) fetchMovie(ctx context.Context, request provider.FetchRequest) (*provider.Metadata, error) {
	result, err := p.search(ctx, request, "movie")
	if err != nil {
		return nil, err
	}

	switch movie := result.(type) {
	case omdb.MovieResult:
		return movieResultToMetadata(movie), nil
	case *omdb.MovieResult:
		return movieResultToMetadata(*movie), nil
	default:
		return nil, provider.NewError(providerName, provider.CodeNotFound, "movie not found", nil)
	}
}

func (p *Provider) fetchSeries(ctx context.Context, request provider.FetchRequest) (*provider.Metadata, error) {
	result, err := p.search(ctx, request, "series")
	if err != nil {
		return nil, err
	}

	switch series := result.(type) {
	case omdb.SeriesResult:
		return seriesResultToMetadata(series), nil
	case *omdb.SeriesResult:
		return seriesResultToMetadata(*series), nil
	default:
		return nil, provider.NewError(providerName, provider.CodeNotFound, "series not found", nil)
	}
}

// search queries by IMDb ID when one is known, otherwise by title.
func (p *Provider) search(ctx context.Context, request provider.FetchRequest, searchType string) (any, error) {
	title := strings.TrimSpace(request.Title)
	if request.ID == "" && title == "" {
		return nil, provider.NewError(providerName, provider.CodeInvalidInput,
			searchType+" fetch requires a title or an IMDb ID", nil)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result any
	var err error
	if request.ID != "" {
		result, err = p.client.SearchByImdbID(omdb.QueryData{ImdbID: request.ID})
	} else {
		result, err = p.client.SearchByTitle(omdb.QueryData{
			Title:      title,
			Year:       request.Year,
			SearchType: searchType,
			Plot:       "short",
		})
	}
	if err != nil {
		return nil, p.mapError(err)
	}
	return result, nil
}

func movieResultToMetadata(result omdb.MovieResult) *provider.Metadata {
	return toMetadata(provider.ContentMovie, result.Title, result.Year, result.Plot,
		result.ImdbRating, result.Genre, result.Language, result.Country, result.ImdbID, 0.9)
}

func seriesResultToMetadata(result omdb.SeriesResult) *provider.Metadata {
	return toMetadata(provider.ContentSeries, result.Title, result.Year, result.Plot,
		result.ImdbRating, result.Genre, result.Language, result.Country, result.ImdbID, 0.85)
}

func toMetadata(ct provider.ContentType, title, year, plot, rating, genre, language, country, imdbID string, confidence float64) *provider.Metadata {
	genres := omdb.SplitAndTrim(genre)

	meta := &provider.Metadata{
		Core: provider.CoreMetadata{
			Title:       title,
			Year:        omdb.FirstYear(year),
			ContentType: ct,
			Overview:    plot,
			Rating:      omdb.ParseRating(rating),
			Genres:      genres,
			Language:    language,
			Country:     country,
		},
		Sources:    make(map[string]string),
		IDs:        make(map[string]string),
		Confidence: confidence,
	}

	if imdbID != "" {
		meta.IDs["imdb_id"] = imdbID
		meta.Sources["imdb_id"] = providerName
	}
	if plot != "" {
		meta.Sources["overview"] = providerName
	}
	if len(genres) > 0 {
		meta.Sources["genres"] = providerName
	}
	meta.Sources["rating"] = providerName
	meta.Sources["title"] = providerName
	meta.Sources["year"] = providerName

	return meta
}

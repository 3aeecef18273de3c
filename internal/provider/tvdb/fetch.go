package tvdb

import (
	"context"
	"strconv"
	"strings"

	"github.com/Digital-Shane/semv/internal/provider"
	"github.com/dashotv/tvdb/openapi/models/operations"
	"github.com/dashotv/tvdb/openapi/models/shared"
)

type searchRecord struct {
	ID   int64
	Name string
	Year string
}

func (p *Provider) fetchSeries(ctx context.Context, request provider.FetchRequest) (*provider.Metadata, error) {
	record, err := p.searchSeries(request)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta := operations.GetSeriesExtendedQueryParamMetaTranslations
	resp, err := p.client.GetSeriesExtended(float64(record.ID), &meta, nil)
	if err != nil {
		return nil, p.mapError(err)
	}
	if resp == nil || resp.Data == nil {
		return nil, provider.NewError(providerName, provider.CodeNotFound, "series not found", nil)
	}

	series := resp.Data
	genres := make([]string, 0, len(series.Genres))
	for _, g := range series.Genres {
		if name := pointerToString(g.Name); name != "" {
			genres = append(genres, name)
		}
	}

	metadata := &provider.Metadata{
		Core: provider.CoreMetadata{
			Title:       firstNonEmpty(pointerToString(series.Name), record.Name),
			Year:        firstNonEmpty(pointerToString(series.Year), record.Year),
			ContentType: provider.ContentSeries,
			Overview:    pointerToString(series.Overview),
			Rating:      pointerToFloat32(series.Score),
			Genres:      genres,
			Country:     pointerToString(series.Country),
			Language:    pointerToString(series.OriginalLanguage),
		},
		Sources:    make(map[string]string),
		IDs:        map[string]string{"tvdb_id": strconv.FormatInt(record.ID, 10)},
		Confidence: 0.9,
	}

	if imdbID := findRemoteID(series.RemoteIds, "imdb"); imdbID != "" {
		metadata.IDs["imdb_id"] = imdbID
		metadata.Sources["imdb_id"] = providerName
	}
	if metadata.Core.Title != "" {
		metadata.Sources["title"] = providerName
	}
	if metadata.Core.Year != "" {
		metadata.Sources["year"] = providerName
	}
	if metadata.Core.Overview != "" {
		metadata.Sources["overview"] = providerName
	}
	if metadata.Core.Rating > 0 {
		metadata.Sources["rating"] = providerName
	}
	if len(genres) > 0 {
		metadata.Sources["genres"] = providerName
	}

	return metadata, nil
}

// searchSeries returns the first series hit for the title, filtered by year
// when one is known.
func (p *Provider) searchSeries(request provider.FetchRequest) (*searchRecord, error) {
	query := strings.TrimSpace(request.Title)
	if request.ID != "" {
		query = strings.TrimSpace(request.ID)
	}
	if query == "" {
		return nil, provider.NewError(providerName, provider.CodeInvalidInput, "series fetch requires a title", nil)
	}

	typeSeries := "series"
	req := operations.GetSearchResultsRequest{Query: &query, Type: &typeSeries}
	if yr, err := strconv.Atoi(strings.TrimSpace(request.Year)); err == nil {
		yf := float64(yr)
		req.Year = &yf
	}

	resp, err := p.client.GetSearchResults(req)
	if err != nil {
		return nil, p.mapError(err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, provider.NewError(providerName, provider.CodeNotFound, "no results found for series: "+query, nil)
	}

	for _, candidate := range resp.Data {
		r := toSearchRecord(candidate)
		if r.ID == 0 {
			continue
		}
		if strings.EqualFold(pointerToString(candidate.Type), "series") {
			return r, nil
		}
	}

	return nil, provider.NewError(providerName, provider.CodeNotFound, "series not found", nil)
}

func toSearchRecord(result shared.SearchResult) *searchRecord {
	id := parseInt64(pointerToString(result.TvdbID))
	if id == 0 {
		id = parseInt64(strings.TrimPrefix(pointerToString(result.ID), "series-"))
	}

	name := firstNonEmpty(pointerToString(result.Name), pointerToString(result.NameTranslated), pointerToString(result.Title))
	return &searchRecord{ID: id, Name: name, Year: pointerToString(result.Year)}
}

func findRemoteID(ids []shared.RemoteID, source string) string {
	needle := strings.ToLower(source)
	for _, remote := range ids {
		if strings.Contains(strings.ToLower(pointerToString(remote.SourceName)), needle) {
			return pointerToString(remote.ID)
		}
	}
	return ""
}

func pointerToString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func pointerToFloat32(value *float64) float32 {
	if value == nil {
		return 0
	}
	return float32(*value)
}

func parseInt64(value string) int64 {
	parsed, _ := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
	}
	return ""
}

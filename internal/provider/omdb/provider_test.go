package omdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Digital-Shane/semv/internal/provider"
	"github.com/google/go-cmp/cmp"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripFunc) *http.Client {
	return &http.Client{Transport: fn}
}

func jsonResponse(status int, body string) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func TestConfigureRequiresAPIKey(t *testing.T) {
	prov := New(nil)
	if err := prov.Configure(map[string]interface{}{}); err == nil {
		t.Fatal("expected error when api_key is missing")
	}
	if err := prov.Configure(map[string]interface{}{"api_key": "   "}); err == nil {
		t.Fatal("expected error when api_key is blank")
	}
}

func TestFetchBeforeConfigure(t *testing.T) {
	if _, err := New(nil).Fetch(context.Background(), provider.FetchRequest{ContentType: provider.ContentMovie, Title: "x"}); err == nil {
		t.Fatal("expected error from unconfigured provider")
	}
}

func TestFetchMovie(t *testing.T) {
	var gotKey string
	prov := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		gotKey = req.URL.Query().Get("apikey")
		return jsonResponse(200, `{
            "Title": "Interstellar",
            "Year": "2014",
            "Genre": "Adventure, Drama, Sci-Fi",
            "Plot": "A team of explorers travel through a wormhole in space.",
            "Language": "English",
            "Country": "USA",
            "imdbRating": "8.6",
            "imdbID": "tt0816692",
            "Type": "movie",
            "Response": "True"
        }`), nil
	}))

	if err := prov.Configure(map[string]interface{}{"api_key": "testing"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	meta, err := prov.Fetch(context.Background(), provider.FetchRequest{
		ContentType: provider.ContentMovie,
		Title:       "Interstellar",
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if meta.Core.Title != "Interstellar" || meta.Core.Year != "2014" {
		t.Fatalf("Core = %+v", meta.Core)
	}
	if meta.Core.Rating == 0 {
		t.Fatal("expected rating to be parsed")
	}
	if diff := cmp.Diff([]string{"Adventure", "Drama", "Sci-Fi"}, meta.Core.Genres); diff != "" {
		t.Errorf("Genres mismatch (-want +got):\n%s", diff)
	}
	if got := meta.IDs["imdb_id"]; got != "tt0816692" {
		t.Fatalf("imdb_id = %q, want tt0816692", got)
	}
	if gotKey != "testing" {
		t.Errorf("apikey param = %q, want testing", gotKey)
	}
}

func TestFetchSeries(t *testing.T) {
	prov := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{
            "Title": "Game of Thrones",
            "Year": "2011–2019",
            "Plot": "Nine noble families fight for control.",
            "imdbRating": "9.2",
            "imdbID": "tt0944947",
            "totalSeasons": "8",
            "Type": "series",
            "Response": "True"
        }`), nil
	}))
	if err := prov.Configure(map[string]interface{}{"api_key": "testing"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	meta, err := prov.Fetch(context.Background(), provider.FetchRequest{
		ContentType: provider.ContentSeries,
		Title:       "Game of Thrones",
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if meta.Core.Year != "2011" {
		t.Errorf("Year = %q, want 2011", meta.Core.Year)
	}
	if meta.Core.ContentType != provider.ContentSeries {
		t.Errorf("ContentType = %q, want series", meta.Core.ContentType)
	}
}

func TestFetchRequiresTitle(t *testing.T) {
	prov := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		t.Fatal("unexpected request")
		return nil, nil
	}))
	if err := prov.Configure(map[string]interface{}{"api_key": "testing"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	_, err := prov.Fetch(context.Background(), provider.FetchRequest{ContentType: provider.ContentMovie})
	if !errors.Is(err, provider.ErrInvalidInput) {
		t.Fatalf("Fetch() error = %v, want InvalidInput", err)
	}
}

func TestFetchRejectsDrive(t *testing.T) {
	prov := New(nil)
	if err := prov.Configure(map[string]interface{}{"api_key": "testing"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	_, err := prov.Fetch(context.Background(), provider.FetchRequest{ContentType: provider.ContentDrive, Title: "x"})
	if !errors.Is(err, provider.ErrInvalidInput) {
		t.Fatalf("Fetch() error = %v, want InvalidInput", err)
	}
}

func TestMapError(t *testing.T) {
	prov := New(nil)
	tests := []struct {
		msg  string
		want provider.ErrorCode
	}{
		{"Invalid API key!", provider.CodeAuthFailed},
		{"Movie not found!", provider.CodeNotFound},
		{"Request limit reached!", provider.CodeRateLimited},
		{"connection refused", provider.CodeRequestFailed},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := provider.CodeOf(prov.mapError(errors.New(tt.msg))); got != tt.want {
				t.Errorf("mapError(%q) code = %s, want %s", tt.msg, got, tt.want)
			}
		})
	}

	if err := prov.mapError(context.Canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("mapError(Canceled) = %v, want passthrough", err)
	}
}

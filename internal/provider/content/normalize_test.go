package content

import (
	"errors"
	"testing"

	"github.com/Digital-Shane/semv/internal/provider"
	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	const driveID = "1AbCdEfGhIjKlMnOpQrStUvWxYz_12345"

	tests := []struct {
		name string
		body string
		want provider.ContentResult
	}{
		{
			name: "lowercase title with streamingLinks",
			body: `{"title":"X","streamingLinks":[]}`,
			want: provider.ContentResult{Title: "X", FileIDs: []string{}},
		},
		{
			name: "capitalized title with files",
			body: `{"Title":"Dune","files":["a","b"]}`,
			want: provider.ContentResult{Title: "Dune", FileIDs: []string{"a", "b"}},
		},
		{
			name: "missing list defaults to empty",
			body: `{"title":"Only Title"}`,
			want: provider.ContentResult{Title: "Only Title", FileIDs: []string{}},
		},
		{
			name: "files wins over links",
			body: `{"title":"T","links":["l"],"files":["f"]}`,
			want: provider.ContentResult{Title: "T", FileIDs: []string{"f"}},
		},
		{
			name: "null files falls through to links",
			body: `{"title":"T","files":null,"links":["l"]}`,
			want: provider.ContentResult{Title: "T", FileIDs: []string{"l"}},
		},
		{
			name: "link objects with id and url",
			body: `{"Title":"T","Year":2014,"links":[{"id":"x1","name":"HD"},{"url":"https://drive.google.com/file/d/` + driveID + `/view"},{"url":"#"},{"name":"no link"}]}`,
			want: provider.ContentResult{Title: "T", Year: "2014", FileIDs: []string{"x1", driveID}},
		},
		{
			name: "placeholder link urls are skipped",
			body: `{"Title":"X","links":[{"name":"Server 1","url":"#"},{"name":"Server 2","url":"pending"}]}`,
			want: provider.ContentResult{Title: "X", FileIDs: []string{}},
		},
		{
			name: "order is preserved and blanks are skipped",
			body: `{"title":"T","files":["3"," ","1","2"]}`,
			want: provider.ContentResult{Title: "T", FileIDs: []string{"3", "1", "2"}},
		},
		{
			name: "string year",
			body: `{"title":"T","year":"1999","files":[]}`,
			want: provider.ContentResult{Title: "T", Year: "1999", FileIDs: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize([]byte(tt.body))
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeFalsyBodiesAreNotFound(t *testing.T) {
	for _, body := range []string{"", "  ", "null", "false", "0", `""`, "true", "[]", `"text"`} {
		t.Run(body, func(t *testing.T) {
			_, err := Normalize([]byte(body))
			if !errors.Is(err, provider.ErrNotFound) {
				t.Errorf("Normalize(%q) error = %v, want NotFound", body, err)
			}
		})
	}
}

func TestNormalizeMalformedJSON(t *testing.T) {
	_, err := Normalize([]byte(`{"title":`))
	if !errors.Is(err, provider.ErrRequestFailed) {
		t.Errorf("Normalize(malformed) error = %v, want RequestFailed", err)
	}
}

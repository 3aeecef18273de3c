package snippet

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerateServerExact(t *testing.T) {
	got := Generate([]string{"id1", "id2"}, StyleServer, "x")

	want := `<!-- wp:buttons{"layout":{"type":"flex","justifyContent":"center","orientation":"vertical"}}-->
 <div class="wp-block-buttons">
<!--wp:buttons{"className":"x"}-->
 <div class="wp-block-button x"><a class="wp-block-button__link wp-element-button" href="https://drive.google.com/uc?id=id1&export=download" target="_blank" rel="noreferrer noopener nofollow">Server 1   </a></div>
  <!--/wp:button-->
<!--wp:buttons{"className":"x"}-->
 <div class="wp-block-button x"><a class="wp-block-button__link wp-element-button" href="https://drive.google.com/uc?id=id2&export=download" target="_blank" rel="noreferrer noopener nofollow">Server 2   </a></div>
  <!--/wp:button-->
</div>
<!--/wp:buttons-->`

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateEmpty(t *testing.T) {
	got := Generate(nil, StyleServer, "movie-btn")
	want := `<!-- wp:buttons{"layout":{"type":"flex","justifyContent":"center","orientation":"vertical"}}-->` +
		"\n <div class=\"wp-block-buttons\">\n\n</div>\n<!--/wp:buttons-->"

	if got != want {
		t.Errorf("Generate(nil) = %q, want %q", got, want)
	}
	if strings.Contains(got, "wp-block-button ") {
		t.Error("empty snippet contains a button block")
	}
}

func TestGenerateVariants(t *testing.T) {
	tests := []struct {
		style       Style
		label       string
		orientation string
	}{
		{StyleServer, "Server", "vertical"},
		{StyleEpisode, "Episode", "horizontal"},
		{StyleZip, "Zip", "vertical"},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			got := Generate([]string{"a", "b"}, tt.style, "")

			if !strings.Contains(got, `"orientation":"`+tt.orientation+`"`) {
				t.Errorf("missing orientation %s", tt.orientation)
			}
			first := strings.Index(got, ">"+tt.label+" 1   </a>")
			second := strings.Index(got, ">"+tt.label+" 2   </a>")
			if first < 0 || second < 0 || first > second {
				t.Errorf("labels %s 1/2 missing or out of order:\n%s", tt.label, got)
			}
			if !strings.Contains(got, `href="https://drive.google.com/uc?id=a&export=download"`) {
				t.Error("missing href for a")
			}
			if !strings.Contains(got, `className":"`+DefaultClass(tt.style)+`"`) {
				t.Errorf("default class %s not applied", DefaultClass(tt.style))
			}
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	ids := []string{"x1", "x2", "x3"}
	for _, style := range Styles {
		if Generate(ids, style, "c") != Generate(ids, style, "c") {
			t.Errorf("Generate(%s) differs between calls", style)
		}
	}
}

func TestGenerateUnknownStyleFallsBackToServer(t *testing.T) {
	if got, want := Generate([]string{"a"}, Style("bogus"), "c"), Generate([]string{"a"}, StyleServer, "c"); got != want {
		t.Errorf("unknown style output differs from server style")
	}
}

func TestParseStyle(t *testing.T) {
	for _, in := range []string{"server", "Episode", " zip "} {
		if _, err := ParseStyle(in); err != nil {
			t.Errorf("ParseStyle(%q) error = %v", in, err)
		}
	}
	if _, err := ParseStyle("grid"); err == nil {
		t.Error("ParseStyle(grid) expected error")
	}
}

func TestDownloadURL(t *testing.T) {
	if got, want := DownloadURL("abc"), "https://drive.google.com/uc?id=abc&export=download"; got != want {
		t.Errorf("DownloadURL() = %q, want %q", got, want)
	}
}

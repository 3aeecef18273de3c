package media

import "testing"

func TestParseTitle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in       string
		wantName string
		wantYear string
	}{
		{"Dune", "Dune", ""},
		{"Dune (2021)", "Dune", "2021"},
		{"Dune.Part.Two.2024.1080p.WEB-DL.x265.mkv", "Dune Part Two", "2024"},
		{"The Matrix 1999 2160p BluRay HDR", "The Matrix", "1999"},
		{"Dark S01 Complete 720p", "Dark", ""},
		{"Dark.S01E03.Past.and.Present.mkv", "Dark", ""},
		{"Breaking Bad (2008-2013) Season 1-5", "Breaking Bad", "2008"},
		{"[Group] Spirited Away (2001) [1080p]", "Spirited Away", "2001"},
		{"Spider-Man No Way Home 2021", "Spider-Man No Way Home", "2021"},
		{"1917 (2019)", "1917", "2019"},
		{"   ", "", ""},
	}

	for _, tc := range tests {
		name, year := ParseTitle(tc.in)
		if name != tc.wantName || year != tc.wantYear {
			t.Errorf("ParseTitle(%q) = (%q, %q), want (%q, %q)", tc.in, name, year, tc.wantName, tc.wantYear)
		}
	}
}

func TestIsVideo(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want bool
	}{
		{"movie.mkv", true},
		{"clip.MP4", true},
		{"trailer.webm", true},
		{"notes.txt", false},
		{"archive.zip", false},
	}
	for _, tc := range tests {
		if got := IsVideo(tc.in); got != tc.want {
			t.Errorf("IsVideo(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

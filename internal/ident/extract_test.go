package ident

import "testing"

func TestExtractID(t *testing.T) {
	const fileID = "1AbCdEfGhIjKlMnOpQrStUvWxYz_12345"

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "empty", input: "", wantOK: false},
		{name: "whitespace", input: "   ", wantOK: false},
		{name: "bare post id", input: "48213", want: "48213", wantOK: true},
		{name: "bare id is not validated", input: "not an id!", want: "not an id!", wantOK: true},
		{name: "bare drive id", input: fileID, want: fileID, wantOK: true},
		{name: "file view url", input: "https://drive.google.com/file/d/" + fileID + "/view?usp=sharing", want: fileID, wantOK: true},
		{name: "folder url", input: "https://drive.google.com/drive/folders/" + fileID, want: fileID, wantOK: true},
		{name: "open url with query id", input: "https://drive.google.com/open?id=" + fileID, want: fileID, wantOK: true},
		{name: "url without token", input: "https://drive.google.com/file/d/short/view", wantOK: false},
		{name: "first long token wins", input: "https://example.com/aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa/" + fileID, want: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", wantOK: true},
		{name: "exactly 25 chars", input: "x/abcdefghijklmnopqrstuvwxy", want: "abcdefghijklmnopqrstuvwxy", wantOK: true},
		{name: "24 chars is too short", input: "x/abcdefghijklmnopqrstuvwx", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractID(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractID(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractIDReturnsSeparatorFreeInputUnchanged(t *testing.T) {
	inputs := []string{"1", "abc", " padded ", "tt0133093", "a?b=c", "ünïcödé"}
	for _, in := range inputs {
		got, ok := ExtractID(in)
		if !ok || got != in {
			t.Errorf("ExtractID(%q) = %q, %v; want input unchanged", in, got, ok)
		}
	}
}

func TestIsURL(t *testing.T) {
	if IsURL("12345") {
		t.Error("IsURL(12345) = true")
	}
	if !IsURL("https://drive.google.com/x") {
		t.Error("IsURL(url) = false")
	}
}

package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestProviderErrorIsMatchesCode(t *testing.T) {
	sentinels := map[ErrorCode]error{
		CodeInvalidInput:  ErrInvalidInput,
		CodeNotFound:      ErrNotFound,
		CodeAuthFailed:    ErrAuth,
		CodeMetadataFetch: ErrMetadataFetch,
		CodeListing:       ErrListing,
		CodeEmptyFolder:   ErrEmptyFolder,
		CodeRequestFailed: ErrRequestFailed,
	}

	for code, sentinel := range sentinels {
		t.Run(string(code), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewError("content", code, "boom", nil))
			if !errors.Is(err, sentinel) {
				t.Fatalf("errors.Is(%v, %v) = false", err, sentinel)
			}
			for other, s := range sentinels {
				if other != code && errors.Is(err, s) {
					t.Fatalf("errors.Is matched unrelated code %s", other)
				}
			}
			if got := CodeOf(err); got != code {
				t.Fatalf("CodeOf() = %s, want %s", got, code)
			}
		})
	}
}

func TestProviderErrorMessage(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewError("drive", CodeListing, "listing folder abc", cause)

	if got, want := err.Error(), "listing folder abc: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	bare := &ProviderError{Err: cause}
	if got := bare.Error(); got != "connection reset" {
		t.Errorf("Error() without message = %q", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "not found", err: NewError("content", CodeNotFound, "x", nil), want: "Sorry! Cannot find what you're looking for."},
		{name: "auth", err: NewError("content", CodeAuthFailed, "x", nil), want: "The API key was rejected. Check your configuration."},
		{name: "empty folder", err: NewError("drive", CodeEmptyFolder, "x", nil), want: "The Google Drive folder has no files."},
		{name: "cancelled", err: context.Canceled, want: "The lookup was cancelled."},
		{name: "timeout", err: fmt.Errorf("get: %w", context.DeadlineExceeded), want: "The lookup timed out. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := UserMessage(errors.New("disk full")); !strings.Contains(got, "disk full") {
		t.Errorf("UserMessage(unknown) = %q, want it to include the cause", got)
	}
}

func TestFileInfoSetOrdered(t *testing.T) {
	set := FileInfoSet{
		"a": {ID: "a", Name: "A"},
		"c": {ID: "c", Name: "C"},
	}

	got := set.Ordered([]string{"c", "b", "a"})
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Fatalf("Ordered() = %+v, want [c a]", got)
	}
}

func TestParseContentType(t *testing.T) {
	for _, in := range []string{"movie", " Series ", "DRIVE"} {
		if _, err := ParseContentType(in); err != nil {
			t.Errorf("ParseContentType(%q) error = %v", in, err)
		}
	}
	if _, err := ParseContentType("anime"); err == nil {
		t.Error("ParseContentType(anime) expected error")
	}
}

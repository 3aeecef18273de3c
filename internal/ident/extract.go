// Package ident turns raw user input into a lookup identifier.
package ident

import (
	"regexp"
	"strings"
)

// driveTokenRe matches a Drive-style resource token: at least 25 characters
// of letters, digits, hyphen or underscore. Any such token in a URL is
// accepted, not only the one in the resource path.
var driveTokenRe = regexp.MustCompile(`[A-Za-z0-9_-]{25,}`)

// ExtractID returns the identifier contained in input.
//
// Input without a path separator is treated as a bare identifier and returned
// unchanged. Anything else is treated as a URL and the first Drive-style token
// is returned. The boolean is false when no identifier could be found.
func ExtractID(input string) (string, bool) {
	if strings.TrimSpace(input) == "" {
		return "", false
	}
	if !IsURL(input) {
		return input, true
	}

	id := driveTokenRe.FindString(input)
	if id == "" {
		return "", false
	}
	return id, true
}

// IsURL reports whether input would be parsed as a URL by ExtractID.
func IsURL(input string) bool {
	return strings.Contains(input, "/")
}

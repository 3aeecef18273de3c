package provider

import (
	"fmt"
	"strings"
)

// ContentType selects which upstream is queried for a lookup.
type ContentType string

const (
	ContentMovie  ContentType = "movie"
	ContentSeries ContentType = "series"
	ContentDrive  ContentType = "drive"
)

// FolderMimeType is the Drive mimeType sentinel for folders.
const FolderMimeType = "application/vnd.google-apps.folder"

// ParseContentType converts user input into a ContentType.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case ContentMovie:
		return ContentMovie, nil
	case ContentSeries:
		return ContentSeries, nil
	case ContentDrive:
		return ContentDrive, nil
	default:
		return "", fmt.Errorf("unknown content type %q (want movie, series or drive)", s)
	}
}

// LookupRequest is a single user action. It is never mutated.
type LookupRequest struct {
	ContentType ContentType
	RawInput    string
}

// ContentResult is the normalized result of a lookup. FileIDs keeps upstream
// order because download link numbering depends on it.
type ContentResult struct {
	Title   string   `json:"title"`
	Year    string   `json:"year,omitempty"`
	FileIDs []string `json:"file_ids"`
	Source  string   `json:"source,omitempty"`
}

// DriveFileMeta is the metadata of one Drive file.
type DriveFileMeta struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Size           int64  `json:"size"`
	MimeType       string `json:"mime_type"`
	WebContentLink string `json:"web_content_link,omitempty"`
}

// IsFolder reports whether the metadata describes a Drive folder.
func (m DriveFileMeta) IsFolder() bool {
	return m.MimeType == FolderMimeType
}

// FileInfoSet maps file IDs to their metadata. IDs that failed to resolve are
// absent.
type FileInfoSet map[string]DriveFileMeta

// Ordered returns the entries of the set that appear in ids, in ids order.
func (s FileInfoSet) Ordered(ids []string) []DriveFileMeta {
	out := make([]DriveFileMeta, 0, len(ids))
	for _, id := range ids {
		if meta, ok := s[id]; ok {
			out = append(out, meta)
		}
	}
	return out
}

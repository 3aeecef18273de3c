package provider

import (
	"context"
)

// Provider is the interface implemented by metadata enrichment providers.
// Enrichment is optional: the content API only knows titles and file IDs,
// so a provider fills in year, overview and ratings for a title.
type Provider interface {
	// Identification
	Name() string
	Description() string

	// Capability discovery
	Capabilities() ProviderCapabilities

	// Configuration
	Configure(config map[string]interface{}) error

	// Data fetching
	Fetch(ctx context.Context, request FetchRequest) (*Metadata, error)
}

// ProviderCapabilities describes what a provider can do
type ProviderCapabilities struct {
	ContentTypes []ContentType // What content types are supported
	RequiresAuth bool          // Whether authentication is required
	Priority     int           // Default priority for this provider (higher = preferred)
}

// Supports reports whether the capabilities include the given content type.
func (c ProviderCapabilities) Supports(ct ContentType) bool {
	for _, t := range c.ContentTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// FetchRequest represents a request for metadata
type FetchRequest struct {
	ContentType ContentType
	Title       string
	Year        string
	ID          string // Provider-specific ID if known
	Language    string // Preferred language
}

// Metadata represents the fetched metadata
type Metadata struct {
	// Core fields that are common across all providers
	Core CoreMetadata

	// Track which provider supplied which field
	Sources map[string]string

	// Provider-specific IDs
	IDs map[string]string

	// Quality/confidence score for this metadata
	Confidence float64
}

// CoreMetadata contains the essential metadata fields
type CoreMetadata struct {
	Title       string
	Year        string
	ContentType ContentType
	Overview    string
	Rating      float32
	Genres      []string
	Language    string
	Country     string
}

package provider

import (
	"fmt"
)

// ValidateCapabilities checks if provider capabilities are valid and consistent
func ValidateCapabilities(caps ProviderCapabilities) error {
	if len(caps.ContentTypes) == 0 {
		return fmt.Errorf("provider must support at least one content type")
	}

	for _, ct := range caps.ContentTypes {
		if ct == ContentDrive {
			return fmt.Errorf("drive items cannot be enriched")
		}
	}

	return nil
}

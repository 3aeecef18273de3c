package drive

import (
	"context"
	"fmt"
	"strings"

	"github.com/Digital-Shane/semv/internal/provider"
)

// ListChildren returns every item whose parent is folderID, in the order the
// API returned them. Pages are fetched one after another because each
// continuation token is only known once the previous page has arrived. If any
// page fails, the pages gathered so far are discarded.
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]provider.DriveFileMeta, error) {
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return nil, provider.NewError(providerName, provider.CodeInvalidInput, "folder ID is required", nil)
	}

	query := parentQuery(folderID)
	var (
		files []provider.DriveFileMeta
		token string
		page  int
	)

	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		call := c.svc.Files.List().
			Q(query).
			Fields(listFields).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}
		if c.pageSize > 0 {
			call = call.PageSize(c.pageSize)
		}

		resp, err := call.Do(c.callOptions()...)
		if err != nil {
			return nil, c.mapError(provider.CodeListing, fmt.Sprintf("listing folder %s (page %d)", folderID, page+1), err)
		}
		page++

		for _, f := range resp.Files {
			if f == nil {
				continue
			}
			meta := toMeta(f, "")
			if meta.ID == "" {
				continue
			}
			files = append(files, meta)
		}

		if resp.NextPageToken == "" {
			break
		}
		token = resp.NextPageToken
	}

	for _, meta := range files {
		c.store(meta)
	}

	c.logger.Debug("listed drive folder", "id", folderID, "pages", page, "files", len(files))
	return files, nil
}

func parentQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents", escapeQueryString(folderID))
}

func escapeQueryString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	return s
}

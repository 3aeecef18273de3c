package drive

import (
	"context"

	"github.com/Digital-Shane/semv/internal/provider"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
	"golang.org/x/sync/errgroup"
)

// FetchAll fetches metadata for every ID concurrently and returns the ones
// that succeeded. A failed ID is logged and left out of the set; it never
// fails the batch. Duplicate IDs are fetched once.
func (c *Client) FetchAll(ctx context.Context, ids []string) provider.FileInfoSet {
	results := csmap.Create[string, provider.DriveFileMeta]()

	var g errgroup.Group
	if c.workers > 0 {
		g.SetLimit(c.workers)
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		g.Go(func() error {
			meta, err := c.fetchShared(ctx, id)
			if err != nil {
				c.logger.Debug("file info fetch failed", "id", id, "error", err)
				return nil
			}
			results.Store(id, meta)
			return nil
		})
	}
	_ = g.Wait()

	set := make(provider.FileInfoSet, results.Count())
	results.Range(func(id string, meta provider.DriveFileMeta) bool {
		set[id] = meta
		return false
	})

	c.logger.Debug("file info batch done", "requested", len(seen), "resolved", len(set))
	return set
}

// fetchShared collapses concurrent fetches of the same ID into one request.
// A joined request runs under the context of whichever caller started it, so
// when that context is cancelled while ours is still live the ID is fetched
// again under ctx.
func (c *Client) fetchShared(ctx context.Context, id string) (provider.DriveFileMeta, error) {
	ch := c.flight.DoChan(id, func() (any, error) {
		return c.GetMeta(ctx, id)
	})

	select {
	case <-ctx.Done():
		return provider.DriveFileMeta{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if isContextErr(res.Err) && ctx.Err() == nil {
				c.logger.Debug("shared fetch cancelled by another caller, retrying", "id", id)
				return c.GetMeta(ctx, id)
			}
			return provider.DriveFileMeta{}, res.Err
		}
		return res.Val.(provider.DriveFileMeta), nil
	}
}

package drive

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Digital-Shane/semv/internal/provider"
	"github.com/patrickmn/go-cache"
)

func init() {
	// go-cache persists items with gob.
	gob.Register(provider.DriveFileMeta{})
}

// NewCache creates a metadata cache with the given TTL.
func NewCache(ttl time.Duration) *cache.Cache {
	return cache.New(ttl, 10*time.Minute)
}

// LoadCache creates a cache and fills it from path when the file exists.
func LoadCache(path string, ttl time.Duration) (*cache.Cache, error) {
	c := NewCache(ttl)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("failed to stat cache file: %w", err)
	}
	if err := c.LoadFile(path); err != nil {
		return NewCache(ttl), fmt.Errorf("failed to load cache file: %w", err)
	}
	return c, nil
}

// SaveCache persists the client's cache to path.
func (c *Client) SaveCache(path string) error {
	if c.cache == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return c.cache.SaveFile(path)
}

func (c *Client) cached(id string) (provider.DriveFileMeta, bool) {
	if c.cache == nil {
		return provider.DriveFileMeta{}, false
	}
	v, found := c.cache.Get(id)
	if !found {
		return provider.DriveFileMeta{}, false
	}
	meta, ok := v.(provider.DriveFileMeta)
	return meta, ok
}

func (c *Client) store(meta provider.DriveFileMeta) {
	if c.cache == nil || meta.ID == "" {
		return
	}
	c.cache.Set(meta.ID, meta, cache.DefaultExpiration)
}

// Package cache memoizes normalized cell text per (record, field).
package cache

import (
	gocache "github.com/patrickmn/go-cache"
)

// CellCache holds normalized cell text for the lifetime of a session.
// Entries never expire and are only dropped by Clear; the host does not
// report edits, so a cached cell can go stale until then.
type CellCache struct {
	c *gocache.Cache
}

// New returns an empty cache with no expiration and no janitor.
func New() *CellCache {
	return &CellCache{c: gocache.New(gocache.NoExpiration, 0)}
}

// Key builds the composite key for a cell.
func Key(recordID, fieldID string) string {
	return recordID + "_" + fieldID
}

func (c *CellCache) Get(recordID, fieldID string) (string, bool) {
	v, ok := c.c.Get(Key(recordID, fieldID))
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (c *CellCache) Set(recordID, fieldID, text string) {
	c.c.Set(Key(recordID, fieldID), text, gocache.NoExpiration)
}

// Len returns the number of cached cells.
func (c *CellCache) Len() int { return c.c.ItemCount() }

// Clear drops every entry.
func (c *CellCache) Clear() { c.c.Flush() }

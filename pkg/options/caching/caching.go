// Package caching configures the server's shared caches.
package caching

import (
	"strings"

	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// Caching is the cache option group.
type Caching[S any] struct {
	*core.Group[S]
}

// New returns the group writing into base on behalf of owner.
func New[S any](base *core.Base, owner S) *Caching[S] {
	return &Caching[S]{Group: core.NewGroup(base, owner, "caching", "")}
}

// BasicParams are settings shared by every cache.
type BasicParams struct {
	// Disable the expiration sweeper thread.
	NoExpire bool
	// Seconds between sweeper runs.
	ExpireScanInterval int
	// Log freed items.
	ReportFreed bool
}

// ApplyTo writes p into b.
func (p BasicParams) ApplyTo(b *core.Base) {
	New(b, b).SetBasicParams(p)
}

// SetBasicParams sets the settings shared by every cache.
func (c *Caching[S]) SetBasicParams(p BasicParams) S {
	c.Set("cache-no-expire", core.NonZero(p.NoExpire), core.AsBool())
	c.Set("cache-expire-freq", core.NonZero(p.ExpireScanInterval))
	c.Set("cache-report-freed-items", core.NonZero(p.ReportFreed), core.AsBool())
	return c.Section()
}

// Cache describes a named cache. Zero fields are left to server defaults.
type Cache struct {
	Name     string
	MaxItems int
	// Default expiration in seconds.
	Expires   int
	BlockSize int
	Blocks    int
	// Persist the cache into this file.
	StoreFile string
	// Seconds between msync calls of the store file.
	StoreSyncInterval int
	// Addresses of nodes to push updates to.
	Nodes []string
	// Addresses of caches to load the initial content from.
	SyncFrom []string
	// UDP addresses to receive updates on.
	UDPAddresses []string
	// Use a bitmap so items can span multiple blocks.
	Bitmap bool
	// Track the last modification time of items.
	LastModified bool
	// Evict the least recently used item when full.
	PurgeLRU bool
	// Do not raise errors when the cache is full.
	IgnoreFull bool
}

func (c Cache) String() string {
	return core.NewKeyValue().
		Add("name", c.Name).
		Add("maxitems", core.NonZero(c.MaxItems)).
		Add("expires", core.NonZero(c.Expires)).
		Add("blocksize", core.NonZero(c.BlockSize)).
		Add("blocks", core.NonZero(c.Blocks)).
		Add("store", core.NonZero(c.StoreFile)).
		Add("store_sync", core.NonZero(c.StoreSyncInterval)).
		AddList("nodes", c.Nodes).
		AddList("sync", c.SyncFrom).
		AddList("udp", c.UDPAddresses).
		AddBool("bitmap", c.Bitmap).
		AddBool("lastmod", c.LastModified).
		AddBool("purge_lru", c.PurgeLRU).
		AddBool("ignore_full", c.IgnoreFull).
		String()
}

// AddCache creates caches.
func (c *Caching[S]) AddCache(caches ...Cache) S {
	for _, cache := range caches {
		c.Set("cache2", cache.String(), core.Multi())
	}
	return c.Section()
}

func scoped(cacheName, value string) string {
	return strings.TrimSpace(cacheName + " " + value)
}

// AddItem puts key into the named cache at startup. An empty cacheName
// targets the default cache.
func (c *Caching[S]) AddItem(cacheName, key, value string) S {
	c.Set("add-cache-item", scoped(cacheName, key+"="+value), core.Multi())
	return c.Section()
}

// AddFile loads a file into the named cache at startup, keyed by its path.
func (c *Caching[S]) AddFile(cacheName, path string) S {
	c.Set("load-file-in-cache", scoped(cacheName, c.Base().ReplacePlaceholders(path)), core.Multi())
	return c.Section()
}

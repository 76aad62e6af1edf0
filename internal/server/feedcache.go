package server

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-lifestats/internal/config"
)

// cacheItem stores a rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123, as HTTP headers expect
	day          string // calendar day the feed was built for
}

// feedCache keeps one rendered calendar per feed key.
// Each entry is an atomic.Pointer: readers never block, a rebuild swaps the whole item.
type feedCache struct {
	entries sync.Map // string -> *atomic.Pointer[cacheItem]
	size    atomic.Int64
	limit   int64
}

func newFeedCache(limit int) *feedCache {
	return &feedCache{limit: int64(limit)}
}

// load returns the item cached under key if it was built for day.
func (c *feedCache) load(key, day string) *cacheItem {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil
	}
	item := v.(*atomic.Pointer[cacheItem]).Load()
	if item == nil || item.day != day {
		return nil
	}
	return item
}

// update atomically replaces the feed stored under key.
func (c *feedCache) update(key, day string, data []byte, now time.Time) *cacheItem {
	hash := sha256.Sum256(data)
	item := &cacheItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: now.UTC().Format(http.TimeFormat),
		day:          day,
	}

	v, loaded := c.entries.LoadOrStore(key, new(atomic.Pointer[cacheItem]))
	if !loaded && c.size.Add(1) > c.limit {
		// Stale days pile up under distinct keys; start over rather than track recency.
		c.entries.Clear()
		c.size.Store(1)
		v, _ = c.entries.LoadOrStore(key, new(atomic.Pointer[cacheItem]))
	}
	v.(*atomic.Pointer[cacheItem]).Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyKey, key,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, item.etag,
	)
	return item
}

// notModified applies the conditional request headers to item.
func notModified(r *http.Request, item *cacheItem) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == item.etag
	}
	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		clientTime, err := time.Parse(http.TimeFormat, since)
		if err != nil {
			return false
		}
		serverTime, err := time.Parse(http.TimeFormat, item.lastModified)
		if err != nil {
			return false
		}
		return !serverTime.After(clientTime)
	}
	return false
}

package middleware

import (
	"bytes"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type cacheEntry struct {
	Content     []byte
	ContentType string
	Expiration  time.Time
}

type memoryCache struct {
	sync.RWMutex
	items map[string]cacheEntry
	swept time.Time
}

// cache is shared by every Cache middleware so writes can purge it
var cache = &memoryCache{
	items: make(map[string]cacheEntry),
}

// CacheConfig configures Cache
type CacheConfig struct {
	Expiration time.Duration
	KeyFunc    func(*gin.Context) string
}

// DefaultCacheConfig caches GET replies for one minute
var DefaultCacheConfig = CacheConfig{
	Expiration: time.Minute,
	KeyFunc:    defaultKeyFunc,
}

// defaultKeyFunc keys on the path and the sorted query. Keys keep the path
// as a prefix so PurgeCacheByPrefix can drop a whole resource.
func defaultKeyFunc(c *gin.Context) string {
	params := c.Request.URL.Query()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(c.Request.URL.Path)
	b.WriteByte('?')
	for _, k := range keys {
		values := params[k]
		sort.Strings(values)
		for _, v := range values {
			b.WriteString(k + "=" + v + "&")
		}
	}
	return b.String()
}

// Cache serves repeated GET requests from memory until they expire
func Cache(config ...CacheConfig) gin.HandlerFunc {
	cfg := DefaultCacheConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = DefaultCacheConfig.Expiration
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = DefaultCacheConfig.KeyFunc
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cfg.KeyFunc(c)
		now := time.Now()
		cache.RLock()
		entry, found := cache.items[key]
		cache.RUnlock()
		if found && entry.Expiration.After(now) {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, entry.ContentType, entry.Content)
			c.Abort()
			return
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Next()

		if writer.Status() == http.StatusOK {
			cache.Lock()
			cache.items[key] = cacheEntry{
				Content:     writer.body.Bytes(),
				ContentType: writer.Header().Get("Content-Type"),
				Expiration:  now.Add(cfg.Expiration),
			}
			cache.sweep(now)
			cache.Unlock()
		}
	}
}

// PurgeOnWrite drops the cached replies under prefixes after every
// successful non-GET request of the group
func PurgeOnWrite(prefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.Method == http.MethodGet || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		for _, prefix := range prefixes {
			PurgeCacheByPrefix(prefix)
		}
	}
}

// PurgeCache drops every cached reply
func PurgeCache() {
	cache.Lock()
	cache.items = make(map[string]cacheEntry)
	cache.Unlock()
}

// PurgeCacheByPrefix drops the cached replies whose path starts with prefix
func PurgeCacheByPrefix(prefix string) {
	cache.Lock()
	defer cache.Unlock()

	for key := range cache.items {
		if strings.HasPrefix(key, prefix) {
			delete(cache.items, key)
		}
	}
}

// sweep drops expired entries at most once a minute. Called with the lock held.
func (m *memoryCache) sweep(now time.Time) {
	if now.Sub(m.swept) < time.Minute {
		return
	}
	m.swept = now
	for key, entry := range m.items {
		if entry.Expiration.Before(now) {
			delete(m.items, key)
		}
	}
}

// responseWriter copies the reply body while writing it
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheStats reports the cache size for the health endpoint
func CacheStats() map[string]interface{} {
	cache.RLock()
	defer cache.RUnlock()

	now := time.Now()
	expired, size := 0, 0
	for _, entry := range cache.items {
		size += len(entry.Content)
		if entry.Expiration.Before(now) {
			expired++
		}
	}
	return map[string]interface{}{
		"total_items":   len(cache.items),
		"expired_items": expired,
		"total_bytes":   size,
	}
}

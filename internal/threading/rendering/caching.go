package rendering

import (
	"image"
	"sync"
	"sync/atomic"
)

// Default cache limits. Eviction trims to the target in one pass so the map
// never grows past max.
const (
	DefaultColumnCacheSize = 512
	targetRatioNum         = 3 // Target after eviction is 3/4 of max
	targetRatioDen         = 4
)

// ColumnKey identifies one scaled strip of a texture.
type ColumnKey struct {
	WallID int             // Wall texture id, 0 for sprites
	Sprite string          // Sprite frame key, empty for walls
	Src    image.Rectangle // Source rectangle inside the texture
	Width  int             // Destination size in pixels
	Height int
}

// ColumnCache memoizes scaled texture strips. It is safe for concurrent use
// and evicts oldest entries first once it reaches its limit.
type ColumnCache struct {
	cache      map[ColumnKey]*image.RGBA
	mutex      sync.RWMutex
	cacheOrder []ColumnKey // Insertion order for eviction
	maxSize    int
	targetSize int

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewColumnCache creates an empty cache holding at most maxSize strips.
// A non-positive maxSize uses DefaultColumnCacheSize.
func NewColumnCache(maxSize int) *ColumnCache {
	if maxSize <= 0 {
		maxSize = DefaultColumnCacheSize
	}
	target := maxSize * targetRatioNum / targetRatioDen
	if target >= maxSize {
		target = maxSize - 1
	}
	return &ColumnCache{
		cache:      make(map[ColumnKey]*image.RGBA, maxSize),
		cacheOrder: make([]ColumnKey, 0, maxSize),
		maxSize:    maxSize,
		targetSize: target,
	}
}

// GetOrCreate returns the cached strip for key, calling create on a miss.
// Returned images are shared and must not be modified.
func (cc *ColumnCache) GetOrCreate(key ColumnKey, create func() *image.RGBA) *image.RGBA {
	// Fast path under the read lock
	cc.mutex.RLock()
	if img, ok := cc.cache[key]; ok {
		cc.mutex.RUnlock()
		cc.hits.Add(1)
		return img
	}
	cc.mutex.RUnlock()

	cc.misses.Add(1)
	img := create()

	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	// Another goroutine may have stored it while we were scaling
	if cached, ok := cc.cache[key]; ok {
		return cached
	}

	if len(cc.cache) >= cc.maxSize {
		evict := len(cc.cacheOrder) - cc.targetSize
		if evict > 0 && evict <= len(cc.cacheOrder) {
			for i := 0; i < evict; i++ {
				delete(cc.cache, cc.cacheOrder[i])
			}
			// Copy down so the backing array does not keep growing
			n := copy(cc.cacheOrder, cc.cacheOrder[evict:])
			cc.cacheOrder = cc.cacheOrder[:n]
		}
	}

	cc.cache[key] = img
	cc.cacheOrder = append(cc.cacheOrder, key)
	return img
}

// Len returns the number of cached strips.
func (cc *ColumnCache) Len() int {
	cc.mutex.RLock()
	defer cc.mutex.RUnlock()
	return len(cc.cache)
}

// Clear drops every entry, e.g. after textures were reloaded.
func (cc *ColumnCache) Clear() {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	cc.cache = make(map[ColumnKey]*image.RGBA, cc.maxSize)
	cc.cacheOrder = cc.cacheOrder[:0]
}

// Stats returns the hit and miss counters.
func (cc *ColumnCache) Stats() (hits, misses uint64) {
	return cc.hits.Load(), cc.misses.Load()
}

package analytics

import (
	"sync"
	"time"

	"github.com/findosh/fundsight/internal/models"
)

// cacheKey identifies one overview computation over one workbook state.
type cacheKey struct {
	Path      string
	Sheet     string
	Basis     models.Basis
	PeriodEnd string
	Year      string
}

type cacheEntry struct {
	result   *models.OverviewResult
	modToken int64
	storedAt time.Time
}

// OverviewCache memoizes overview results per workbook file. Entries
// carry the file's modification token (mtime in unix nanos) so a
// rewritten workbook invalidates its own entries on next read.
type OverviewCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[cacheKey]cacheEntry
}

// NewOverviewCache creates a cache whose entries expire after ttl.
// A non-positive ttl disables expiry; mtime invalidation still applies.
func NewOverviewCache(ttl time.Duration) *OverviewCache {
	return &OverviewCache{
		ttl: ttl,
		m:   make(map[cacheKey]cacheEntry),
	}
}

// Get returns the cached result if it exists, matches modToken, and has
// not expired.
func (c *OverviewCache) Get(path, sheet string, req Request, modToken int64) (*models.OverviewResult, bool) {
	key := cacheKey{Path: path, Sheet: sheet, Basis: req.Basis, PeriodEnd: req.PeriodEnd, Year: req.Year}

	c.mu.RLock()
	entry, ok := c.m[key]
	c.mu.RUnlock()

	if !ok || entry.modToken != modToken {
		return nil, false
	}
	if c.ttl > 0 && time.Since(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry.result, true
}

// Put stores a computed result under the workbook's current modToken.
func (c *OverviewCache) Put(path, sheet string, req Request, modToken int64, result *models.OverviewResult) {
	key := cacheKey{Path: path, Sheet: sheet, Basis: req.Basis, PeriodEnd: req.PeriodEnd, Year: req.Year}

	c.mu.Lock()
	c.m[key] = cacheEntry{result: result, modToken: modToken, storedAt: time.Now()}
	c.mu.Unlock()
}

package openhours

import (
	"fmt"
	"sync/atomic"

	"github.com/hoyle1974/openhours/temporal"
)

// cachedDay is what the store keeps in memory for a parsed day.
type cachedDay struct {
	ranges []temporal.TimeRange
}

// CacheStats counts lookups of parsed days. Store.CacheStats exposes the
// live counters.
type CacheStats struct {
	Hits   atomic.Int64
	Misses atomic.Int64
}

func (c *CacheStats) Hit() {
	c.Hits.Add(1)
}
func (c *CacheStats) Miss() {
	c.Misses.Add(1)
}
func (c *CacheStats) Reset() {
	c.Hits.Store(0)
	c.Misses.Store(0)
}
func (c *CacheStats) String() string {
	return fmt.Sprintf("CacheStats(Hits: %d, Misses: %d)", c.Hits.Load(), c.Misses.Load())
}

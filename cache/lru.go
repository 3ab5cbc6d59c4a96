// Package cache provides a capacity-bounded LRU implementation of
// tile.LruCache: the sole backpressure mechanism the traversal core relies
// on to decide whether a tile's content can be requested this frame.
package cache

import (
	"container/list"
	"sync"

	"github.com/kestrel-labs/tessera/tile"
)

// entry is the bookkeeping record kept per resident tile. Recency is tracked
// by the entry's position in LRU.order, not by a timestamp: MarkUsed moves an
// entry to the front of the list, and eviction always takes from the back.
type entry struct {
	tileID uint64
	tile   *tile.Node
}

// LRU is a fixed-capacity cache of tile residency. It only tracks which
// tiles are currently "in" the cache — it does not hold tile content itself,
// since that lives wherever the renderer's loader puts it; eviction here
// just means the evicted tile's LoadingState is reset to Unloaded so a
// future frame will request it again.
type LRU struct {
	capacity int

	mu      sync.Mutex
	order   *list.List
	entries map[uint64]*list.Element
}

// New builds an LRU with room for capacity resident tiles. A capacity of 0
// means the cache is always full — every RequestTileContents candidate is
// starved, which is useful for exercising backpressure in tests.
func New(capacity int) *LRU {
	return &LRU{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[uint64]*list.Element),
	}
}

// MarkUsed refreshes tile's residency, evicting the least recently used
// resident if the cache is at capacity and tile is not already resident.
func (c *LRU) MarkUsed(t *tile.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[t.ID]; ok {
		c.order.MoveToFront(el)
		return
	}

	if c.capacity > 0 && c.order.Len() >= c.capacity {
		c.evictOldestLocked()
	}

	if c.capacity <= 0 {
		return
	}

	el := c.order.PushFront(&entry{tileID: t.ID, tile: t})
	c.entries[t.ID] = el
}

// IsFull reports whether the cache has no room for another resident tile.
func (c *LRU) IsFull() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.capacity <= 0 || c.order.Len() >= c.capacity
}

// Len returns the number of currently resident tiles.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

func (c *LRU) evictOldestLocked() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}

	e := oldest.Value.(*entry)
	c.order.Remove(oldest)
	delete(c.entries, e.tileID)
	e.tile.SetLoadingState(tile.Unloaded)
}

var _ tile.LruCache = (*LRU)(nil)

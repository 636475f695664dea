package chankit

import (
	"regexp"
	"sync"

	"github.com/chankit-dev/chankit/internal/logger"
	"github.com/chankit-dev/chankit/internal/metrics"
)

// ThreadCache is an in-memory store of threads keyed by thread number. All
// reads hand out clones, so callers never hold a live alias into cached
// state; mutation goes through Insert, Remove and UpdateEntry only.
type ThreadCache struct {
	threads map[int64]*Thread
	mu      sync.RWMutex
	board   string
}

// NewThreadCache creates an empty cache for one board.
func NewThreadCache(board string) *ThreadCache {
	return &ThreadCache{
		threads: make(map[int64]*Thread),
		board:   board,
	}
}

// Insert stores a copy of t keyed by its thread number, replacing any
// existing entry.
func (c *ThreadCache) Insert(t *Thread) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.threads[t.No()] = t.Clone()
	metrics.CachedThreads.WithLabelValues(c.board).Set(float64(len(c.threads)))
}

// Contains reports whether a thread with the given number is cached.
func (c *ThreadCache) Contains(no int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.threads[no]
	return ok
}

// Get returns a copy of the cached thread with the given number.
func (c *ThreadCache) Get(no int64) (*Thread, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.threads[no]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Remove evicts the thread with the given number, if cached.
func (c *ThreadCache) Remove(no int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.threads[no]; !ok {
		return
	}
	delete(c.threads, no)

	metrics.CacheEvictions.WithLabelValues(c.board).Inc()
	metrics.CachedThreads.WithLabelValues(c.board).Set(float64(len(c.threads)))
	logger.Log.Debug("thread evicted", "component", "thread_cache", "board", c.board, "no", no)
}

// Len returns the number of cached threads.
func (c *ThreadCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.threads)
}

// Threads returns copies of all cached threads in unspecified order.
func (c *ThreadCache) Threads() []*Thread {
	c.mu.RLock()
	defer c.mu.RUnlock()

	threads := make([]*Thread, 0, len(c.threads))
	for _, t := range c.threads {
		threads = append(threads, t.Clone())
	}
	return threads
}

// Matching returns copies of the cached threads whose opening post matches
// re, in unspecified order.
func (c *ThreadCache) Matching(re *regexp.Regexp) []*Thread {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var threads []*Thread
	for _, t := range c.threads {
		if t.Matches(re) {
			threads = append(threads, t.Clone())
		}
	}
	return threads
}

// UpdateEntry revalidates the cached thread with the given number in place,
// reporting whether it was present. The lock is held for the full update,
// including the transport call.
func (c *ThreadCache) UpdateEntry(no int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.threads[no]
	if !ok {
		return false, nil
	}
	return true, t.Update()
}

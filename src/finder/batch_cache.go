package finder

import (
	"sync"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

// BatchCache holds the most recent batch produced by a scheduled refresh.
type BatchCache struct {
	mu    sync.RWMutex
	batch *models.BatchResult
}

func (c *BatchCache) Set(batch *models.BatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.batch = batch
}

// Get returns nil until the first refresh completes.
func (c *BatchCache) Get() *models.BatchResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.batch
}

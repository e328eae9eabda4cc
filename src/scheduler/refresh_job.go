package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jiaming2012/options-symbol-finder/src/finder"
	"github.com/jiaming2012/options-symbol-finder/src/models"
)

type batchProcessor interface {
	ProcessSymbols(ctx context.Context, symbols []models.StockSymbol, minDaysToExpiration int) *models.BatchResult
}

// RefreshJob reruns the configured batch and publishes it to the cache.
type RefreshJob struct {
	ctx     context.Context
	finder  batchProcessor
	cache   *finder.BatchCache
	symbols []models.StockSymbol
	minDTE  int
	timeout time.Duration
}

func (j *RefreshJob) Name() string {
	return "refresh_option_symbols"
}

// Run fails only when every symbol failed. The previous batch stays cached in that case.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(j.ctx, j.timeout)
	defer cancel()

	batch := j.finder.ProcessSymbols(ctx, j.symbols, j.minDTE)
	if batch.IsTotalFailure() {
		return fmt.Errorf("RefreshJob: all %d symbols failed", len(batch.Failures))
	}

	j.cache.Set(batch)

	return nil
}

func NewRefreshJob(ctx context.Context, f batchProcessor, cache *finder.BatchCache, symbols []models.StockSymbol, minDTE int) *RefreshJob {
	return &RefreshJob{
		ctx:     ctx,
		finder:  f,
		cache:   cache,
		symbols: symbols,
		minDTE:  minDTE,
		timeout: time.Minute,
	}
}

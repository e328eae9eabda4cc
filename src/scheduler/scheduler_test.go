package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/options-symbol-finder/src/finder"
	"github.com/jiaming2012/options-symbol-finder/src/models"
)

type stubProcessor struct {
	fail  bool
	calls int
}

func (p *stubProcessor) ProcessSymbols(ctx context.Context, symbols []models.StockSymbol, minDaysToExpiration int) *models.BatchResult {
	p.calls++

	batch := models.NewBatchResult(uuid.New(), symbols, minDaysToExpiration, time.Now())
	for _, s := range symbols {
		if p.fail {
			batch.AddFailure(s, fmt.Errorf("down: %w", models.TransportErr))
			continue
		}

		batch.AddSelection(&models.SymbolSelection{Symbol: s})
	}

	return batch
}

func TestRefreshJob(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes the batch", func(t *testing.T) {
		// arrange
		cache := &finder.BatchCache{}
		job := NewRefreshJob(ctx, &stubProcessor{}, cache, []models.StockSymbol{"SPY"}, 2)

		// act
		err := New().RunNow(job)

		// assert
		require.NoError(t, err)
		require.NotNil(t, cache.Get())
		require.Contains(t, cache.Get().Results, models.StockSymbol("SPY"))
	})

	t.Run("total failure keeps the previous batch", func(t *testing.T) {
		// arrange
		cache := &finder.BatchCache{}
		previous := models.NewBatchResult(uuid.New(), nil, 2, time.Now())
		cache.Set(previous)
		job := NewRefreshJob(ctx, &stubProcessor{fail: true}, cache, []models.StockSymbol{"SPY"}, 2)

		// act
		err := job.Run()

		// assert
		require.Error(t, err)
		require.Same(t, previous, cache.Get())
	})
}

func TestScheduler_AddJob(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		job := NewRefreshJob(context.Background(), &stubProcessor{}, &finder.BatchCache{}, nil, 2)
		require.Error(t, New().AddJob("not a schedule", job))
	})

	t.Run("runs on schedule", func(t *testing.T) {
		// arrange
		cache := &finder.BatchCache{}
		job := NewRefreshJob(context.Background(), &stubProcessor{}, cache, []models.StockSymbol{"SPY"}, 2)
		s := New()
		require.NoError(t, s.AddJob("@every 1s", job))

		// act
		s.Start()
		defer s.Stop()

		// assert
		require.Eventually(t, func() bool { return cache.Get() != nil }, 5*time.Second, 50*time.Millisecond)
	})
}

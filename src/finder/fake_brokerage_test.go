package finder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

type fakeBrokerage struct {
	mu          sync.Mutex
	expirations map[models.StockSymbol][]models.ExpirationEntry
	chains      map[models.StockSymbol]*models.OptionChainSnapshot
	errs        map[models.StockSymbol]error
	chainCalls  map[models.StockSymbol][]time.Time
}

func newFakeBrokerage() *fakeBrokerage {
	return &fakeBrokerage{
		expirations: make(map[models.StockSymbol][]models.ExpirationEntry),
		chains:      make(map[models.StockSymbol]*models.OptionChainSnapshot),
		errs:        make(map[models.StockSymbol]error),
		chainCalls:  make(map[models.StockSymbol][]time.Time),
	}
}

func (b *fakeBrokerage) FetchExpirationChain(ctx context.Context, symbol models.StockSymbol) ([]models.ExpirationEntry, error) {
	if err, found := b.errs[symbol]; found {
		return nil, err
	}

	entries, found := b.expirations[symbol]
	if !found {
		return nil, fmt.Errorf("fakeBrokerage: %s: %w", symbol, models.NotFoundErr)
	}

	return entries, nil
}

func (b *fakeBrokerage) FetchOptionChain(ctx context.Context, symbol models.StockSymbol, expirationDate time.Time) (*models.OptionChainSnapshot, error) {
	b.mu.Lock()
	b.chainCalls[symbol] = append(b.chainCalls[symbol], expirationDate)
	b.mu.Unlock()

	chain, found := b.chains[symbol]
	if !found {
		return nil, fmt.Errorf("fakeBrokerage: %s: %w", symbol, models.NotFoundErr)
	}

	return chain, nil
}

func date(day int) time.Time {
	return time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC)
}

func entry(day int, dte int) models.ExpirationEntry {
	return models.ExpirationEntry{ExpirationDate: date(day), DaysToExpiration: dte}
}

func contracts(prefix string, prices ...int64) []models.StrikeContract {
	out := make([]models.StrikeContract, 0, len(prices))
	for _, p := range prices {
		out = append(out, models.StrikeContract{
			StrikePrice: decimal.NewFromInt(p),
			Symbol:      fmt.Sprintf("%s%d", prefix, p),
		})
	}

	return out
}

func snapshot(symbol models.StockSymbol, price string, calls, puts []models.StrikeContract) *models.OptionChainSnapshot {
	return models.NewOptionChainSnapshot(symbol, date(17), decimal.RequireFromString(price), map[models.OptionType][]models.StrikeContract{
		models.OptionTypeCall: calls,
		models.OptionTypePut:  puts,
	})
}

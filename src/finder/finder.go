package finder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

type Finder struct {
	brokerage        Brokerage
	concurrency      int
	strikesAroundATM int
	now              func() time.Time
	symbolsProcessed metric.Int64Counter
}

type Option func(*Finder)

// WithConcurrency bounds how many symbols are processed at once. Values below 1 mean sequential.
func WithConcurrency(n int) Option {
	return func(f *Finder) {
		if n < 1 {
			n = 1
		}
		f.concurrency = n
	}
}

func WithStrikesAroundATM(n int) Option {
	return func(f *Finder) {
		if n >= 0 {
			f.strikesAroundATM = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(f *Finder) {
		f.now = now
	}
}

func NewFinder(brokerage Brokerage, opts ...Option) *Finder {
	f := &Finder{
		brokerage:        brokerage,
		concurrency:      1,
		strikesAroundATM: DefaultStrikesAroundATM,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	counter, err := otel.Meter("finder").Int64Counter("finder.symbols.processed",
		metric.WithDescription("Symbols processed, by outcome"))
	if err != nil {
		log.Warnf("NewFinder: failed to create symbols processed counter: %v", err)
	}
	f.symbolsProcessed = counter

	return f
}

// FindOptionSymbols runs the full pipeline for one symbol: pick the expiration,
// fetch its chain and select strikes around the money.
func (f *Finder) FindOptionSymbols(ctx context.Context, symbol models.StockSymbol, minDaysToExpiration int) (*models.SymbolSelection, error) {
	tracer := otel.Tracer("FindOptionSymbols")
	ctx, span := tracer.Start(ctx, "FindOptionSymbols")
	defer span.End()

	span.SetAttributes(attribute.String("symbol", symbol.String()), attribute.Int("min_dte", minDaysToExpiration))

	selection, err := f.findOptionSymbols(ctx, symbol, minDaysToExpiration)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return selection, nil
}

func (f *Finder) findOptionSymbols(ctx context.Context, symbol models.StockSymbol, minDaysToExpiration int) (*models.SymbolSelection, error) {
	if minDaysToExpiration < 0 {
		return nil, fmt.Errorf("FindOptionSymbols: %d: %w", minDaysToExpiration, models.InvalidMinDaysToExpirationErr)
	}

	logger := log.WithField("symbol", symbol)
	logger.Infof("processing symbol")

	entries, err := f.brokerage.FetchExpirationChain(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("FindOptionSymbols: failed to fetch expiration chain: %w", err)
	}

	expiration, err := SelectExpiration(entries, minDaysToExpiration)
	if err != nil {
		return nil, fmt.Errorf("FindOptionSymbols: %s: %w", symbol, err)
	}

	logger.Infof("selected expiration %s (%d days)", expiration, expiration.DaysToExpiration)

	snapshot, err := f.brokerage.FetchOptionChain(ctx, symbol, expiration.ExpirationDate)
	if err != nil {
		return nil, fmt.Errorf("FindOptionSymbols: failed to fetch option chain for %s: %w", expiration, err)
	}

	if snapshot == nil || snapshot.IsEmpty() {
		return nil, fmt.Errorf("FindOptionSymbols: %s %s: %w", symbol, expiration, models.EmptyChainErr)
	}

	if !snapshot.UnderlyingPrice.IsPositive() {
		return nil, fmt.Errorf("FindOptionSymbols: %s %s: underlying price %s: %w", symbol, expiration, snapshot.UnderlyingPrice, models.TransportErr)
	}

	result := selectStrikes(snapshot, f.strikesAroundATM)
	for _, optionType := range models.OptionTypes {
		if len(result.Get(optionType)) == 0 {
			logger.Warnf("no %s strikes for %s", optionType, expiration)
		}
	}

	logger.Infof("found %d calls and %d puts around %s", len(result.Calls), len(result.Puts), snapshot.UnderlyingPrice)

	return &models.SymbolSelection{
		Symbol:          symbol,
		Expiration:      expiration,
		UnderlyingPrice: snapshot.UnderlyingPrice,
		Result:          result,
	}, nil
}

type symbolOutcome struct {
	selection *models.SymbolSelection
	err       error
}

// ProcessSymbols runs every symbol independently. A failing symbol is recorded
// in the batch failures and never stops the others.
func (f *Finder) ProcessSymbols(ctx context.Context, symbols []models.StockSymbol, minDaysToExpiration int) *models.BatchResult {
	tracer := otel.Tracer("ProcessSymbols")
	ctx, span := tracer.Start(ctx, "ProcessSymbols")
	defer span.End()

	unique := uniqueSymbols(symbols)
	span.SetAttributes(attribute.Int("symbols", len(unique)), attribute.Int("min_dte", minDaysToExpiration))

	outcomes := make([]symbolOutcome, len(unique))

	if f.concurrency <= 1 {
		for i, symbol := range unique {
			outcomes[i] = f.process(ctx, symbol, minDaysToExpiration)
		}
	} else {
		sem := make(chan struct{}, f.concurrency)
		wg := sync.WaitGroup{}
		for i, symbol := range unique {
			wg.Add(1)
			go func(i int, symbol models.StockSymbol) {
				defer wg.Done()

				select {
				case sem <- struct{}{}:
				case <-ctx.Done():
					outcomes[i] = symbolOutcome{err: fmt.Errorf("ProcessSymbols: %s not started: %w", symbol, ctx.Err())}
					return
				}
				defer func() { <-sem }()

				outcomes[i] = f.process(ctx, symbol, minDaysToExpiration)
			}(i, symbol)
		}
		wg.Wait()
	}

	batch := models.NewBatchResult(uuid.New(), unique, minDaysToExpiration, f.now())
	for i, symbol := range unique {
		if outcomes[i].err != nil {
			batch.AddFailure(symbol, outcomes[i].err)
			continue
		}

		batch.AddSelection(outcomes[i].selection)
	}

	log.WithField("request_id", batch.RequestID).Infof("processed %d symbols: %d succeeded, %d failed", len(unique), len(batch.Results), len(batch.Failures))

	return batch
}

func (f *Finder) process(ctx context.Context, symbol models.StockSymbol, minDaysToExpiration int) symbolOutcome {
	selection, err := f.FindOptionSymbols(ctx, symbol, minDaysToExpiration)
	if err != nil {
		log.WithField("symbol", symbol).Warnf("failed: %v", err)
		f.record(ctx, string(models.ClassifyError(err)))
		return symbolOutcome{err: err}
	}

	f.record(ctx, "success")
	return symbolOutcome{selection: selection}
}

func (f *Finder) record(ctx context.Context, outcome string) {
	if f.symbolsProcessed == nil {
		return
	}

	f.symbolsProcessed.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func uniqueSymbols(symbols []models.StockSymbol) []models.StockSymbol {
	seen := make(map[models.StockSymbol]bool, len(symbols))
	out := make([]models.StockSymbol, 0, len(symbols))
	for _, s := range symbols {
		s = models.NewStockSymbol(string(s))
		if s == "" || seen[s] {
			continue
		}

		seen[s] = true
		out = append(out, s)
	}

	return out
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchResult holds one multi-symbol run. A symbol appears in exactly one of
// Results or Failures.
type BatchResult struct {
	RequestID        uuid.UUID                       `json:"request_id"`
	CreatedAt        time.Time                       `json:"created_at"`
	MinDTE           int                             `json:"min_days_to_expiration"`
	Results          map[StockSymbol]SelectionResult `json:"results"`
	Failures         map[StockSymbol]FailureReason   `json:"failures"`
	ExpirationDates  map[StockSymbol]string          `json:"expiration_dates"`
	UnderlyingPrices map[StockSymbol]decimal.Decimal `json:"underlying_prices"`
	requested        []StockSymbol
}

func NewBatchResult(requestID uuid.UUID, symbols []StockSymbol, minDTE int, now time.Time) *BatchResult {
	requested := make([]StockSymbol, len(symbols))
	copy(requested, symbols)

	return &BatchResult{
		RequestID:        requestID,
		CreatedAt:        now,
		MinDTE:           minDTE,
		Results:          make(map[StockSymbol]SelectionResult),
		Failures:         make(map[StockSymbol]FailureReason),
		ExpirationDates:  make(map[StockSymbol]string),
		UnderlyingPrices: make(map[StockSymbol]decimal.Decimal),
		requested:        requested,
	}
}

func (b *BatchResult) AddSelection(s *SymbolSelection) {
	b.Results[s.Symbol] = s.Result
	b.ExpirationDates[s.Symbol] = s.Expiration.String()
	b.UnderlyingPrices[s.Symbol] = s.UnderlyingPrice
}

func (b *BatchResult) AddFailure(symbol StockSymbol, err error) {
	b.Failures[symbol] = NewFailureReason(err)
}

// Symbols returns the requested symbols in request order.
func (b *BatchResult) Symbols() []StockSymbol {
	return b.requested
}

func (b *BatchResult) SucceededSymbols() []StockSymbol {
	var out []StockSymbol
	for _, s := range b.requested {
		if _, found := b.Results[s]; found {
			out = append(out, s)
		}
	}

	return out
}

func (b *BatchResult) FailedSymbols() []StockSymbol {
	var out []StockSymbol
	for _, s := range b.requested {
		if _, found := b.Failures[s]; found {
			out = append(out, s)
		}
	}

	return out
}

func (b *BatchResult) IsTotalFailure() bool {
	return len(b.Results) == 0 && len(b.Failures) > 0
}

func (b *BatchResult) IsPartialFailure() bool {
	return len(b.Results) > 0 && len(b.Failures) > 0
}

package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type StrikeContract struct {
	StrikePrice decimal.Decimal `json:"strike_price"`
	Symbol      string          `json:"symbol"`
}

// OptionChainSnapshot is one chain fetch for a (symbol, expiration) pair. Each
// side is kept sorted by strike price ascending, ties broken by identifier.
type OptionChainSnapshot struct {
	Symbol          StockSymbol                     `json:"symbol"`
	ExpirationDate  time.Time                       `json:"expiration_date"`
	UnderlyingPrice decimal.Decimal                 `json:"underlying_price"`
	StrikesByType   map[OptionType][]StrikeContract `json:"strikes_by_type"`
}

func (s *OptionChainSnapshot) Strikes(optionType OptionType) []StrikeContract {
	if s == nil || s.StrikesByType == nil {
		return nil
	}

	return s.StrikesByType[optionType]
}

func (s *OptionChainSnapshot) IsEmpty() bool {
	for _, optionType := range OptionTypes {
		if len(s.Strikes(optionType)) > 0 {
			return false
		}
	}

	return true
}

func NewOptionChainSnapshot(symbol StockSymbol, expirationDate time.Time, underlyingPrice decimal.Decimal, strikesByType map[OptionType][]StrikeContract) *OptionChainSnapshot {
	sorted := make(map[OptionType][]StrikeContract, len(OptionTypes))
	for _, optionType := range OptionTypes {
		sorted[optionType] = SortStrikes(strikesByType[optionType])
	}

	return &OptionChainSnapshot{
		Symbol:          symbol,
		ExpirationDate:  expirationDate,
		UnderlyingPrice: underlyingPrice,
		StrikesByType:   sorted,
	}
}

// SortStrikes returns a copy of strikes ordered by price then identifier, with
// exact (price, identifier) duplicates removed.
func SortStrikes(strikes []StrikeContract) []StrikeContract {
	out := make([]StrikeContract, len(strikes))
	copy(out, strikes)

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].StrikePrice.Cmp(out[j].StrikePrice); c != 0 {
			return c < 0
		}

		return out[i].Symbol < out[j].Symbol
	})

	deduped := make([]StrikeContract, 0, len(out))
	for _, s := range out {
		if n := len(deduped); n > 0 && s.StrikePrice.Equal(deduped[n-1].StrikePrice) && s.Symbol == deduped[n-1].Symbol {
			continue
		}

		deduped = append(deduped, s)
	}

	return deduped
}

package models

import (
	"encoding/json"
	"strings"
)

type StockSymbol string

func (s StockSymbol) String() string {
	return strings.ToUpper(string(s))
}

func (s StockSymbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s StockSymbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func NewStockSymbol(s string) StockSymbol {
	return StockSymbol(strings.ToUpper(strings.TrimSpace(s)))
}

// NewStockSymbols parses a list of tickers, dropping blanks and repeats while
// keeping the first-seen order.
func NewStockSymbols(raw []string) []StockSymbol {
	seen := make(map[StockSymbol]struct{})
	var out []StockSymbol
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			sym := NewStockSymbol(part)
			if sym == "" {
				continue
			}

			if _, found := seen[sym]; found {
				continue
			}

			seen[sym] = struct{}{}
			out = append(out, sym)
		}
	}

	return out
}

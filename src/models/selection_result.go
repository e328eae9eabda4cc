package models

import "github.com/shopspring/decimal"

type SelectionResult struct {
	Calls []string `json:"calls"`
	Puts  []string `json:"puts"`
}

func (r SelectionResult) Get(optionType OptionType) []string {
	switch optionType {
	case OptionTypeCall:
		return r.Calls
	case OptionTypePut:
		return r.Puts
	}

	return nil
}

func (r SelectionResult) IsEmpty() bool {
	return len(r.Calls) == 0 && len(r.Puts) == 0
}

// SymbolSelection is the single-symbol answer, including what it was derived from.
type SymbolSelection struct {
	Symbol          StockSymbol     `json:"symbol"`
	Expiration      ExpirationEntry `json:"expiration"`
	UnderlyingPrice decimal.Decimal `json:"underlying_price"`
	Result          SelectionResult `json:"result"`
}

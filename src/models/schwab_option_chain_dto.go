package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const SchwabChainStatusFailed = "FAILED"

type SchwabOptionContractDTO struct {
	PutCall          string  `json:"putCall"`
	Symbol           string  `json:"symbol"`
	Description      string  `json:"description"`
	Bid              float64 `json:"bid"`
	Ask              float64 `json:"ask"`
	Last             float64 `json:"last"`
	TotalVolume      int     `json:"totalVolume"`
	OpenInterest     int     `json:"openInterest"`
	StrikePrice      float64 `json:"strikePrice"`
	ExpirationDate   string  `json:"expirationDate"`
	DaysToExpiration int     `json:"daysToExpiration"`
	InTheMoney       bool    `json:"inTheMoney"`
}

// SchwabExpDateMap is keyed by "YYYY-MM-DD:DTE", then by strike price string.
type SchwabExpDateMap map[string]map[string][]SchwabOptionContractDTO

type SchwabOptionChainDTO struct {
	Symbol            string           `json:"symbol"`
	Status            string           `json:"status"`
	Strategy          string           `json:"strategy"`
	IsDelayed         bool             `json:"isDelayed"`
	NumberOfContracts int              `json:"numberOfContracts"`
	UnderlyingPrice   decimal.Decimal  `json:"underlyingPrice"`
	CallExpDateMap    SchwabExpDateMap `json:"callExpDateMap"`
	PutExpDateMap     SchwabExpDateMap `json:"putExpDateMap"`
}

func (d *SchwabOptionChainDTO) ToModel(symbol StockSymbol, expirationDate time.Time) (*OptionChainSnapshot, error) {
	if strings.EqualFold(d.Status, SchwabChainStatusFailed) {
		return nil, fmt.Errorf("SchwabOptionChainDTO.ToModel: chain status %s for %s: %w", d.Status, symbol, NotFoundErr)
	}

	if !d.UnderlyingPrice.IsPositive() {
		return nil, fmt.Errorf("SchwabOptionChainDTO.ToModel: %s: underlying price %s: %w", symbol, d.UnderlyingPrice, TransportErr)
	}

	calls, err := d.CallExpDateMap.strikes(OptionTypeCall, expirationDate)
	if err != nil {
		return nil, fmt.Errorf("SchwabOptionChainDTO.ToModel: calls: %w", err)
	}

	puts, err := d.PutExpDateMap.strikes(OptionTypePut, expirationDate)
	if err != nil {
		return nil, fmt.Errorf("SchwabOptionChainDTO.ToModel: puts: %w", err)
	}

	return NewOptionChainSnapshot(symbol, expirationDate, d.UnderlyingPrice, map[OptionType][]StrikeContract{
		OptionTypeCall: calls,
		OptionTypePut:  puts,
	}), nil
}

func (m SchwabExpDateMap) strikes(side OptionType, expirationDate time.Time) ([]StrikeContract, error) {
	var out []StrikeContract
	for expKey, strikes := range m {
		if !matchesExpiration(expKey, expirationDate) {
			continue
		}

		for strikeKey, contracts := range strikes {
			contract, found := firstContractOfType(contracts, side)
			if !found {
				continue
			}

			price, err := decimal.NewFromString(strikeKey)
			if err != nil {
				if contract.StrikePrice <= 0 {
					return nil, fmt.Errorf("failed to parse strike %q: %v: %w", strikeKey, err, TransportErr)
				}

				price = decimal.NewFromFloat(contract.StrikePrice)
			}

			out = append(out, StrikeContract{
				StrikePrice: price,
				Symbol:      contract.Symbol,
			})
		}
	}

	return out, nil
}

// matchesExpiration compares the date part of a "YYYY-MM-DD:DTE" key. A zero
// expiration matches every key.
func matchesExpiration(expKey string, expirationDate time.Time) bool {
	if expirationDate.IsZero() {
		return true
	}

	datePart, _, _ := strings.Cut(expKey, ":")
	return datePart == expirationDate.Format(ExpirationDateLayout)
}

func firstContractOfType(contracts []SchwabOptionContractDTO, side OptionType) (SchwabOptionContractDTO, bool) {
	for _, c := range contracts {
		optionType, err := ParseOptionType(c.PutCall)
		if err != nil {
			continue
		}

		if optionType == side && c.Symbol != "" {
			return c, true
		}
	}

	return SchwabOptionContractDTO{}, false
}

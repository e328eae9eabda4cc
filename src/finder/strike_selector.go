package finder

import (
	"github.com/shopspring/decimal"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

const DefaultStrikesAroundATM = 3

// SelectStrikes picks the window of strikes around the underlying price for
// both calls and puts.
func SelectStrikes(snapshot *models.OptionChainSnapshot) models.SelectionResult {
	return selectStrikes(snapshot, DefaultStrikesAroundATM)
}

func selectStrikes(snapshot *models.OptionChainSnapshot, strikesAround int) models.SelectionResult {
	if snapshot == nil {
		return models.SelectionResult{Calls: []string{}, Puts: []string{}}
	}

	return models.SelectionResult{
		Calls: symbolsOf(SelectStrikeWindow(snapshot.Strikes(models.OptionTypeCall), snapshot.UnderlyingPrice, strikesAround)),
		Puts:  symbolsOf(SelectStrikeWindow(snapshot.Strikes(models.OptionTypePut), snapshot.UnderlyingPrice, strikesAround)),
	}
}

// SelectStrikeWindow returns up to strikesAround strikes on each side of the
// strike closest to underlyingPrice, plus that strike, in ascending order. The
// window is clamped at the ends of the chain and is never padded. It counts
// contracts, not distinct prices: two identifiers at one strike take two slots.
func SelectStrikeWindow(strikes []models.StrikeContract, underlyingPrice decimal.Decimal, strikesAround int) []models.StrikeContract {
	sorted := models.SortStrikes(strikes)
	if len(sorted) == 0 {
		return []models.StrikeContract{}
	}

	if strikesAround < 0 {
		strikesAround = 0
	}

	center := centerIndex(sorted, underlyingPrice)

	lo := center - strikesAround
	if lo < 0 {
		lo = 0
	}

	hi := center + strikesAround + 1
	if hi > len(sorted) {
		hi = len(sorted)
	}

	return sorted[lo:hi]
}

// centerIndex expects strikes sorted ascending. On an exact tie the lower strike wins.
func centerIndex(strikes []models.StrikeContract, underlyingPrice decimal.Decimal) int {
	best := 0
	bestDistance := strikes[0].StrikePrice.Sub(underlyingPrice).Abs()
	for i := 1; i < len(strikes); i++ {
		distance := strikes[i].StrikePrice.Sub(underlyingPrice).Abs()
		if distance.Cmp(bestDistance) < 0 {
			best = i
			bestDistance = distance
		}
	}

	return best
}

func symbolsOf(strikes []models.StrikeContract) []string {
	out := make([]string, 0, len(strikes))
	for _, s := range strikes {
		out = append(out, s.Symbol)
	}

	return out
}

package finder

import (
	"fmt"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

// SelectExpiration returns the entry with the smallest days to expiration that
// is still at least minDaysToExpiration. Ties keep the first entry in input order.
func SelectExpiration(entries []models.ExpirationEntry, minDaysToExpiration int) (models.ExpirationEntry, error) {
	if minDaysToExpiration < 0 {
		return models.ExpirationEntry{}, fmt.Errorf("SelectExpiration: %d: %w", minDaysToExpiration, models.InvalidMinDaysToExpirationErr)
	}

	found := false
	var best models.ExpirationEntry
	for _, entry := range entries {
		if entry.DaysToExpiration < minDaysToExpiration {
			continue
		}

		if !found || entry.DaysToExpiration < best.DaysToExpiration {
			best = entry
			found = true
		}
	}

	if !found {
		return models.ExpirationEntry{}, fmt.Errorf("SelectExpiration: min %d days over %d entries: %w", minDaysToExpiration, len(entries), models.NoQualifyingExpirationErr)
	}

	return best, nil
}

package models

import "fmt"

type SchwabExpirationDTO struct {
	ExpirationDate   string `json:"expirationDate"`
	DaysToExpiration int    `json:"daysToExpiration"`
	ExpirationType   string `json:"expirationType"`
	SettlementType   string `json:"settlementType"`
	OptionRoots      string `json:"optionRoots"`
	Standard         bool   `json:"standard"`
}

type SchwabExpirationChainDTO struct {
	Status         string                `json:"status"`
	ExpirationList []SchwabExpirationDTO `json:"expirationList"`
}

// ToModel keeps the broker's ordering; selection relies on it for tie-breaks.
func (d *SchwabExpirationChainDTO) ToModel() ([]ExpirationEntry, error) {
	entries := make([]ExpirationEntry, 0, len(d.ExpirationList))
	for _, e := range d.ExpirationList {
		date, err := ParseExpirationDate(e.ExpirationDate)
		if err != nil {
			return nil, fmt.Errorf("SchwabExpirationChainDTO.ToModel: failed to parse expiration date %q: %w", e.ExpirationDate, err)
		}

		if e.DaysToExpiration < 0 {
			return nil, fmt.Errorf("SchwabExpirationChainDTO.ToModel: negative days to expiration %d for %s", e.DaysToExpiration, e.ExpirationDate)
		}

		entries = append(entries, ExpirationEntry{
			ExpirationDate:   date,
			DaysToExpiration: e.DaysToExpiration,
			ExpirationType:   e.ExpirationType,
			Standard:         e.Standard,
		})
	}

	return entries, nil
}

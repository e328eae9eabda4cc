package models

import "time"

const ExpirationDateLayout = "2006-01-02"

type ExpirationEntry struct {
	ExpirationDate   time.Time `json:"expiration_date"`
	DaysToExpiration int       `json:"days_to_expiration"`
	ExpirationType   string    `json:"expiration_type,omitempty"`
	Standard         bool      `json:"standard"`
}

func (e ExpirationEntry) String() string {
	return e.ExpirationDate.Format(ExpirationDateLayout)
}

// ParseExpirationDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseExpirationDate(s string) (time.Time, error) {
	return time.Parse(ExpirationDateLayout, s)
}

package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSymbolList splits a comma separated flag value, dropping blanks.
func ParseSymbolList(symbols string) []string {
	out := make([]string, 0)
	for _, s := range strings.Split(symbols, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}

func ParseMinDaysToExpiration(value string, fallback int) (int, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}

	days, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("error parsing min days to expiration: %v", err)
	}

	return days, nil
}

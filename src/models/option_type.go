package models

import (
	"fmt"
	"strings"
)

type OptionType string

const (
	OptionTypeCall OptionType = "call"
	OptionTypePut  OptionType = "put"
)

// OptionTypes is the fixed side order used when rendering or iterating a chain.
var OptionTypes = []OptionType{OptionTypeCall, OptionTypePut}

// ParseOptionType accepts broker spellings such as "CALL", "put", "C" or "P".
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return OptionTypeCall, nil
	case "put", "p":
		return OptionTypePut, nil
	}

	return "", fmt.Errorf("ParseOptionType: %w: %q", InvalidOptionTypeErr, s)
}

// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

// NormalizeDigits reduces a phone number to its digits-only form, which is the
// canonical lead identity key. Valid numbers are first formatted to E.164 so
// that local and international spellings of the same number collapse to one
// key. If parsing fails, the digits of the raw input are returned.
func NormalizeDigits(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err == nil && phonenumbers.IsValidNumber(number) {
		return digitsOnly(phonenumbers.Format(number, phonenumbers.E164))
	}

	return digitsOnly(trimmed)
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

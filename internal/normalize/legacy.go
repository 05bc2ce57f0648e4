package normalize

import (
	"strings"

	"github.com/spf13/cast"
)

// LegacyLatitude rebuilds a latitude by placing the decimal point after the first digit.
//
// Deprecated: digit splicing guesses the magnitude from the digit count and produces
// out-of-range values for malformed input. Use CoordinateNormalizer.Normalize.
func LegacyLatitude(value interface{}) string {
	digits, negative := legacyDigits(value)
	if digits == "" {
		return "0.0"
	}
	rest := "0"
	if len(digits) > 1 {
		rest = digits[1:]
	}
	return sign(negative) + digits[:1] + "." + rest
}

// LegacyLongitude rebuilds a longitude by placing the decimal point after the first three
// digits when the value starts with 1, otherwise after the first two.
//
// Deprecated: see LegacyLatitude.
func LegacyLongitude(value interface{}) string {
	digits, negative := legacyDigits(value)
	if digits == "" {
		return "0.0"
	}
	if len(digits) < 2 {
		return sign(negative) + digits + ".0"
	}
	head := 2
	if digits[0] == '1' {
		head = 3
	}
	if head > len(digits) {
		head = len(digits)
	}
	rest := "0"
	if len(digits) > head {
		rest = digits[head:]
	}
	return sign(negative) + digits[:head] + "." + rest
}

func legacyDigits(value interface{}) (string, bool) {
	raw := cast.ToString(value)
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	return s, negative
}

func sign(negative bool) string {
	if negative {
		return "-"
	}
	return ""
}

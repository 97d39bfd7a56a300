package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount converts a statement amount string into a float64. It accepts
// both European ("1.234,56") and US ("1,234.56") digit grouping and decides
// which separator is the decimal one by inspecting the relative positions of
// the last dot and the last comma.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	// Strip currency symbols, codes and inner whitespace; keep digits,
	// separators and the sign.
	var b strings.Builder
	for _, r := range cleaned {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', r == '+':
			b.WriteRune(r)
		}
	}
	cleaned = b.String()
	if cleaned == "" || cleaned == "-" || cleaned == "+" {
		return 0, fmt.Errorf("no digits in amount %q", s)
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		// European: dot groups thousands, comma is the decimal mark.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case lastDot >= 0 && lastComma >= 0:
		// US: comma groups thousands, dot is the decimal mark.
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case lastComma >= 0:
		// Only commas present. A trailing two-digit group means the comma
		// is a decimal mark ("12,99"), otherwise it groups thousands.
		if len(cleaned)-lastComma-1 == 2 {
			cleaned = strings.ReplaceAll(cleaned[:lastComma], ",", "") + "." + cleaned[lastComma+1:]
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return value, nil
}

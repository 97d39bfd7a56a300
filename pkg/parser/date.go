package parser

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order. Day-first formats come before the US
// month-first layout because the supported bank exports are European.
var dateLayouts = []string{
	"02.01.2006",
	"2006-01-02",
	"01/02/2006",
	"02.01.06",
	"2006/01/02",
	time.RFC3339,
}

// ParseDate parses the date formats seen across the supported bank exports:
// day-first "02.01.2006", ISO "2006-01-02" and month-first "01/02/2006".
func ParseDate(s string) (time.Time, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	// Some exports append a time component to an otherwise known layout.
	if fields := strings.Fields(cleaned); len(fields) > 1 {
		return ParseDate(fields[0])
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// pkg/ingest/values.go
package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical boundary format for dates.
const DateLayout = "02/01/2006"

// Source layouts seen in scale exports. The day-first form wins ambiguity,
// matching how the scales are configured.
var dateLayouts = []string{
	DateLayout,
	"2/1/2006",
	"02/01/06",
	"2006-01-02",
	"02-01-2006",
	"2006-01-02 15:04:05",
}

// NormalizeDate coerces a source date cell into dd/mm/yyyy.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(DateLayout), nil
		}
	}

	return "", fmt.Errorf("unparsable date %q", value)
}

// ParseWeight converts a weight cell into a float. Decimal commas are
// accepted. The second return reports whether the value was usable.
func ParseWeight(value string) (float64, bool) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", "."))
	if value == "" {
		return 0, false
	}

	weight, err := strconv.ParseFloat(value, 64)
	if err != nil || weight < 0 {
		return 0, false
	}
	return weight, true
}

// rowIdentifier builds a best-effort identifier for findings and fault logs.
func rowIdentifier(restaurant, date, timeOfDay string) string {
	return fmt.Sprintf("%s %s %s", restaurant, date, timeOfDay)
}

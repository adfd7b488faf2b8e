// pkg/ingest/dates.go
package ingest

import (
	"fmt"
	"time"
)

// DateFilter restricts ingestion to a set of dd/mm/yyyy dates. A nil filter
// accepts everything.
type DateFilter map[string]struct{}

// Accepts reports whether the filter keeps the given date.
func (f DateFilter) Accepts(date string) bool {
	if f == nil {
		return true
	}
	_, ok := f[date]
	return ok
}

// NewDateFilter builds a filter from an inclusive dd/mm/yyyy range. An empty
// "to" collapses the range to the single "from" date.
func NewDateFilter(from, to string) (DateFilter, error) {
	if from == "" {
		return nil, nil
	}
	if to == "" {
		to = from
	}

	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", from, err)
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", to, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("date range %s to %s is inverted", from, to)
	}

	filter := make(DateFilter)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		filter[day.Format(DateLayout)] = struct{}{}
	}
	return filter, nil
}

package summary

import (
	"maps"
	"slices"
)

// DailyCount is the number of records on one calendar day of the target zone.
type DailyCount struct {
	Date  string
	Count int64
}

// Daily counts records per day, sorted by date.
func Daily(n Normalized) []DailyCount {
	counts := make(map[string]int64)
	for _, rec := range n.Records {
		counts[rec.Time.Format(dayLayout)]++
	}

	out := make([]DailyCount, 0, len(counts))
	for _, date := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, DailyCount{Date: date, Count: counts[date]})
	}

	return out
}

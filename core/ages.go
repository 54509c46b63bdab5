package core

import (
	"sort"
	"time"

	"github.com/quantifio/codemetrics/schema"
)

const hoursPerDay = 24

// ComputeAges reduces a change log to one row per path: the time of its most
// recent change and the age of that change relative to now, in fractional
// days. Rows are sorted by age descending so the stalest paths lead; ties
// break lexically by path.
func ComputeAges(entries []schema.LogEntry, now time.Time) []schema.AgeRow {
	lastChange := make(map[string]time.Time)
	for _, e := range entries {
		if e.Path == "" {
			continue
		}
		if prev, ok := lastChange[e.Path]; !ok || e.Date.After(prev) {
			lastChange[e.Path] = e.Date
		}
	}

	rows := make([]schema.AgeRow, 0, len(lastChange))
	for p, last := range lastChange {
		rows = append(rows, schema.AgeRow{
			Path:       p,
			LastChange: last,
			AgeDays:    now.Sub(last).Hours() / hoursPerDay,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AgeDays != rows[j].AgeDays {
			return rows[i].AgeDays > rows[j].AgeDays
		}
		return rows[i].Path < rows[j].Path
	})
	return rows
}

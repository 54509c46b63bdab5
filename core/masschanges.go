package core

import (
	"sort"

	"github.com/quantifio/codemetrics/schema"
)

// ComputeMassChanges lists revisions that touched strictly more than
// minChanges paths, with the revision's author and message for context.
// Rows are sorted by path count descending; ties break by revision
// ascending.
func ComputeMassChanges(entries []schema.LogEntry, minChanges int) []schema.MassChangeRow {
	counts := make(map[string]int)
	authors := make(map[string]string)
	messages := make(map[string]string)
	for _, e := range entries {
		counts[e.Revision]++
		if _, ok := authors[e.Revision]; !ok {
			authors[e.Revision] = e.Author
			messages[e.Revision] = e.Message
		}
	}

	rows := make([]schema.MassChangeRow, 0)
	for rev, n := range counts {
		if n <= minChanges {
			continue
		}
		rows = append(rows, schema.MassChangeRow{
			Revision:  rev,
			PathCount: n,
			Author:    authors[rev],
			Message:   messages[rev],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PathCount != rows[j].PathCount {
			return rows[i].PathCount > rows[j].PathCount
		}
		return rows[i].Revision < rows[j].Revision
	})
	return rows
}

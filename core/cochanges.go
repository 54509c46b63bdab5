package core

import (
	"sort"

	"github.com/quantifio/codemetrics/schema"
)

// ComputeCoChanges reports how often pairs of entities changed in the same
// revision. keyOf maps a log entry to the entity it belongs to, usually its
// path; grouping by guessed component passes a lookup into that map instead.
// A nil keyOf groups by path.
//
// For a pair (p, s): Changes is the number of distinct revisions touching p,
// CoChanges the number touching both, and Coupling their ratio, always in
// [0, 1] and exactly 1 when s changed every time p did. Self-pairs are
// excluded and pairs below minCoupling are dropped. Rows are sorted by
// coupling descending, then primary and secondary ascending.
func ComputeCoChanges(entries []schema.LogEntry, keyOf func(schema.LogEntry) string, minCoupling float64) []schema.CoChangeRow {
	if keyOf == nil {
		keyOf = func(e schema.LogEntry) string { return e.Path }
	}

	// --- 1. Dedupe to distinct (revision, entity) pairs ---
	keysByRev := make(map[string]map[string]struct{})
	for _, e := range entries {
		key := keyOf(e)
		keys, ok := keysByRev[e.Revision]
		if !ok {
			keys = make(map[string]struct{})
			keysByRev[e.Revision] = keys
		}
		keys[key] = struct{}{}
	}

	// --- 2. Count changes per entity and co-changes per ordered pair ---
	changes := make(map[string]int)
	type pair struct{ primary, secondary string }
	cochanges := make(map[pair]int)
	for _, keys := range keysByRev {
		for p := range keys {
			changes[p]++
			for s := range keys {
				if p == s {
					continue
				}
				cochanges[pair{p, s}]++
			}
		}
	}

	// --- 3. Build and rank the rows ---
	rows := make([]schema.CoChangeRow, 0, len(cochanges))
	for pr, co := range cochanges {
		coupling := float64(co) / float64(changes[pr.primary])
		if coupling < minCoupling {
			continue
		}
		rows = append(rows, schema.CoChangeRow{
			Primary:   pr.primary,
			Secondary: pr.secondary,
			Changes:   changes[pr.primary],
			CoChanges: co,
			Coupling:  coupling,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Coupling != rows[j].Coupling {
			return rows[i].Coupling > rows[j].Coupling
		}
		if rows[i].Primary != rows[j].Primary {
			return rows[i].Primary < rows[j].Primary
		}
		return rows[i].Secondary < rows[j].Secondary
	})
	return rows
}

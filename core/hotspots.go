package core

import (
	"sort"

	"github.com/quantifio/codemetrics/schema"
)

// countChanges tallies how many distinct revisions touched each path.
// Multiple rows for the same (revision, path) pair count once.
func countChanges(entries []schema.LogEntry) map[string]int {
	revsByPath := make(map[string]map[string]struct{})
	for _, e := range entries {
		if e.Path == "" {
			continue
		}
		revs, ok := revsByPath[e.Path]
		if !ok {
			revs = make(map[string]struct{})
			revsByPath[e.Path] = revs
		}
		revs[e.Revision] = struct{}{}
	}

	changes := make(map[string]int, len(revsByPath))
	for p, revs := range revsByPath {
		changes[p] = len(revs)
	}
	return changes
}

// ComputeHotSpots joins per-path line counts with per-path change frequency
// and scores each row. With the outer policy, paths present in only one of
// the two inputs are kept with the missing side zero-filled; with the inner
// policy they are dropped.
//
// ChangesScore and ComplexityScore are the min-max scaled Changes and Code
// values over the joined rows (0 when all rows share one value), so Score,
// their sum, falls in [0, 2]. Rows are ranked by Score descending; ties
// break lexically by path.
func ComputeHotSpots(entries []schema.LogEntry, loc []schema.LocEntry, join schema.JoinPolicy) []schema.HotSpotRow {
	changes := countChanges(entries)

	locByPath := make(map[string]schema.LocEntry, len(loc))
	for _, l := range loc {
		locByPath[l.Path] = l
	}

	// --- 1. Join the two tables on path ---
	rows := make([]schema.HotSpotRow, 0, len(locByPath))
	for p, l := range locByPath {
		ch, touched := changes[p]
		if join == schema.InnerJoin && !touched {
			continue
		}
		rows = append(rows, schema.HotSpotRow{
			Path:     p,
			Language: l.Language,
			Code:     l.Code,
			Changes:  ch,
		})
	}
	if join == schema.OuterJoin {
		for p, ch := range changes {
			if _, counted := locByPath[p]; counted {
				continue
			}
			rows = append(rows, schema.HotSpotRow{Path: p, Changes: ch})
		}
	}

	// --- 2. Score each row ---
	scaleHotSpots(rows)

	// --- 3. Rank ---
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Path < rows[j].Path
	})
	return rows
}

// scaleHotSpots fills in the min-max scaled score columns in place.
func scaleHotSpots(rows []schema.HotSpotRow) {
	if len(rows) == 0 {
		return
	}

	minChanges, maxChanges := rows[0].Changes, rows[0].Changes
	minCode, maxCode := rows[0].Code, rows[0].Code
	for _, r := range rows[1:] {
		minChanges = min(minChanges, r.Changes)
		maxChanges = max(maxChanges, r.Changes)
		minCode = min(minCode, r.Code)
		maxCode = max(maxCode, r.Code)
	}

	for i := range rows {
		rows[i].ChangesScore = minMaxScale(rows[i].Changes, minChanges, maxChanges)
		rows[i].ComplexityScore = minMaxScale(rows[i].Code, minCode, maxCode)
		rows[i].Score = rows[i].ChangesScore + rows[i].ComplexityScore
	}
}

// minMaxScale maps v into [0, 1] relative to the observed range. A flat
// range scales to 0 so a table of identical values carries no signal.
func minMaxScale(v, lo, hi int) float64 {
	if hi == lo {
		return 0
	}
	return float64(v-lo) / float64(hi-lo)
}

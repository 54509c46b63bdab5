package core

// capRows truncates ranked rows to the configured result limit. Compute
// functions return rows pre-sorted, so the cap keeps the top of the ranking.
// A limit of zero means unlimited.
func capRows[T any](rows []T, limit int) []T {
	if limit <= 0 || len(rows) <= limit {
		return rows
	}
	return rows[:limit]
}

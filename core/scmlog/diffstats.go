package scmlog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/schema"
)

// DiffChunk holds the statistics of one contiguous change block in a
// git-style diff. First and Last are line numbers on the new side of the
// file.
type DiffChunk struct {
	Path    string
	Chunk   int
	First   int
	Last    int
	Added   int
	Removed int
}

// DiffStat holds the summed counts for one path.
type DiffStat struct {
	Added   int
	Removed int
}

// chunkHeaderRe captures the new-side start and count of a chunk header,
// e.g. "@@ -1086,7 +1086,10 @@". The count is omitted for single lines.
var chunkHeaderRe = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

// ParseDiffChunks converts svn diff --git output into per-chunk statistics.
// The "Index: <path>" lines carry the working copy relative path; the
// "diff --git a/... b/..." headers repeat it with repository prefixes and
// are ignored.
func ParseDiffChunks(out []byte) ([]DiffChunk, error) {
	var chunks []DiffChunk
	currentPath := ""
	chunkIndex := 0
	current := -1 // index into chunks of the open chunk

	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.TrimRight(line, "\r")

		if after, ok := strings.CutPrefix(line, "Index: "); ok {
			currentPath = strings.TrimSpace(after)
			chunkIndex = 0
			current = -1
			continue
		}

		if match := chunkHeaderRe.FindStringSubmatch(line); match != nil {
			if currentPath == "" {
				return nil, fmt.Errorf("chunk header before any Index line: %q", line)
			}
			first, err := strconv.Atoi(match[1])
			if err != nil {
				return nil, fmt.Errorf("malformed chunk header %q: %w", line, err)
			}
			count := 1
			if match[2] != "" {
				count, err = strconv.Atoi(match[2])
				if err != nil {
					return nil, fmt.Errorf("malformed chunk header %q: %w", line, err)
				}
			}
			chunks = append(chunks, DiffChunk{
				Path:  currentPath,
				Chunk: chunkIndex,
				First: first,
				Last:  first + count,
			})
			current = len(chunks) - 1
			chunkIndex++
			continue
		}

		if current == -1 {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// File headers, not content lines
		case strings.HasPrefix(line, "+"):
			chunks[current].Added++
		case strings.HasPrefix(line, "-"):
			chunks[current].Removed++
		}
	}

	return chunks, nil
}

// DiffStatsByPath sums chunk statistics per path.
func DiffStatsByPath(chunks []DiffChunk) map[string]DiffStat {
	stats := make(map[string]DiffStat)
	for _, c := range chunks {
		s := stats[c.Path]
		s.Added += c.Added
		s.Removed += c.Removed
		stats[c.Path] = s
	}
	return stats
}

// BackfillCounts fills the null added/removed counts of svn log entries from
// per-revision diff statistics. fetchDiff returns the raw svn diff --git -c
// output for one revision. A failed diff leaves that revision's counts null
// and logs a warning, matching how partial history should degrade.
func BackfillCounts(entries []schema.LogEntry, fetchDiff func(revision string) ([]byte, error)) []schema.LogEntry {
	statsByRev := make(map[string]map[string]DiffStat)

	for i := range entries {
		entry := &entries[i]
		if entry.Kind != "f" || entry.Added != nil || entry.Removed != nil {
			continue
		}

		stats, ok := statsByRev[entry.Revision]
		if !ok {
			out, err := fetchDiff(entry.Revision)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("cannot retrieve diff for %s", entry.Revision), err)
				statsByRev[entry.Revision] = nil
				continue
			}
			chunks, err := ParseDiffChunks(out)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("cannot parse diff for %s", entry.Revision), err)
				statsByRev[entry.Revision] = nil
				continue
			}
			stats = DiffStatsByPath(chunks)
			statsByRev[entry.Revision] = stats
		}
		if stats == nil {
			continue
		}

		if stat, ok := stats[entry.Path]; ok {
			entry.Added = schema.IntPtr(stat.Added)
			entry.Removed = schema.IntPtr(stat.Removed)
		}
	}

	return entries
}

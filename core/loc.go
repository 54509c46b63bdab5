package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/quantifio/codemetrics/schema"
)

// ParseClocOutput converts the CSV report of cloc --csv --by-file into
// LocEntry rows. The header record and the trailing SUM record are skipped,
// as are records too short to carry counts. Paths are slash-normalized with
// any leading "./" removed so they join cleanly against log paths.
func ParseClocOutput(out []byte) ([]schema.LocEntry, error) {
	reader := csv.NewReader(bytes.NewReader(out))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse line count report: %w", err)
	}

	entries := make([]schema.LocEntry, 0, len(records))
	for _, rec := range records {
		if len(rec) < 5 || rec[0] == "" || rec[0] == "language" {
			continue
		}
		// The SUM record has no path and cannot join against anything.
		if rec[0] == "SUM" || rec[1] == "" {
			continue
		}

		blank, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, fmt.Errorf("bad blank count in record %v: %w", rec, err)
		}
		comment, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil {
			return nil, fmt.Errorf("bad comment count in record %v: %w", rec, err)
		}
		code, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil {
			return nil, fmt.Errorf("bad code count in record %v: %w", rec, err)
		}

		entries = append(entries, schema.LocEntry{
			Language: rec[0],
			Path:     normalizeLocPath(rec[1]),
			Blank:    blank,
			Comment:  comment,
			Code:     code,
		})
	}
	return entries, nil
}

// normalizeLocPath converts a path reported by cloc to the repo-relative,
// slash-separated form used by log entries.
func normalizeLocPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	cleaned := path.Clean(p)
	if cleaned == "." {
		return ""
	}
	return cleaned
}

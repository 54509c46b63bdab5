// Package scmlog parses version control log output into schema.LogEntry rows.
package scmlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quantifio/codemetrics/schema"
)

// gitDateLayout matches git log --date=iso output, e.g. "2018-12-05 23:44:38 -0800".
const gitDateLayout = "2006-01-02 15:04:05 -0700"

// ParseGitLog converts the output of git log --pretty=format:"[%h] [%an] [%ad] [%s]"
// --date=iso --numstat into log entries. Header lines carry the commit fields;
// the numstat lines that follow them carry per-path added/removed counts.
func ParseGitLog(out []byte) ([]schema.LogEntry, error) {
	var entries []schema.LogEntry
	var current schema.LogEntry
	haveHeader := false

	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			header, err := parseGitHeader(line)
			if err != nil {
				return nil, err
			}
			current = header
			haveHeader = true
			continue
		}

		if !haveHeader {
			return nil, fmt.Errorf("numstat line before any commit header: %q", line)
		}
		entry, err := parseNumstatLine(line, current)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// parseGitHeader splits a "[rev] [author] [date] [message]" line. The message
// may itself contain brackets, so only the first three fields are positional
// and the remainder belongs to the message.
func parseGitHeader(line string) (schema.LogEntry, error) {
	parts := strings.SplitN(line, "] [", 4)
	if len(parts) != 4 || !strings.HasPrefix(parts[0], "[") || !strings.HasSuffix(parts[3], "]") {
		return schema.LogEntry{}, fmt.Errorf("malformed commit header: %q", line)
	}

	revision := strings.TrimPrefix(parts[0], "[")
	author := parts[1]
	dateStr := parts[2]
	message := strings.TrimSuffix(parts[3], "]")

	date, err := time.Parse(gitDateLayout, dateStr)
	if err != nil {
		return schema.LogEntry{}, fmt.Errorf("malformed commit date in header %q: %w", line, err)
	}

	return schema.LogEntry{
		Revision: revision,
		Author:   author,
		Date:     date.UTC(),
		TextMods: true,
		Kind:     "f",
		PropMods: false,
		Message:  message,
	}, nil
}

// parseNumstatLine splits an "added\tremoved\tpath" line and attaches the
// result to the current commit header. Counts of "-" mean git reported no
// line counts (binary file) and stay null. Fields are tab separated; the
// numeric fields may carry padding spaces and the path may itself contain
// spaces, commas or quotes.
func parseNumstatLine(line string, header schema.LogEntry) (schema.LogEntry, error) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 {
		return schema.LogEntry{}, fmt.Errorf("malformed numstat line: %q", line)
	}

	entry := header
	addedStr := strings.TrimSpace(parts[0])
	removedStr := strings.TrimSpace(parts[1])
	path := strings.TrimSpace(parts[2])

	if addedStr != "-" {
		added, err := strconv.Atoi(addedStr)
		if err != nil {
			return schema.LogEntry{}, fmt.Errorf("malformed added count in numstat line %q: %w", line, err)
		}
		entry.Added = schema.IntPtr(added)
	}
	if removedStr != "-" {
		removed, err := strconv.Atoi(removedStr)
		if err != nil {
			return schema.LogEntry{}, fmt.Errorf("malformed removed count in numstat line %q: %w", line, err)
		}
		entry.Removed = schema.IntPtr(removed)
	}

	if strings.Contains(path, " => ") {
		oldPath, newPath := parseRenamePath(path)
		if newPath == "" {
			return schema.LogEntry{}, fmt.Errorf("malformed rename in numstat line: %q", line)
		}
		entry.Path = newPath
		entry.CopyFromPath = oldPath
	} else {
		entry.Path = path
	}

	return entry, nil
}

// parseRenamePath extracts old and new paths from a rename string. Git uses
// either the plain "old => new" form or the braced "prefix{old => new}suffix"
// form, where either side of the arrow may be empty.
func parseRenamePath(path string) (string, string) {
	braceStart := strings.Index(path, "{")
	if braceStart == -1 {
		// Simple format: "old => new"
		parts := strings.SplitN(path, " => ", 2)
		if len(parts) == 2 {
			return parts[0], parts[1]
		}
		return "", ""
	}

	braceEnd := strings.Index(path, "}")
	if braceEnd == -1 || braceStart >= braceEnd {
		return "", ""
	}

	prefix := path[:braceStart]
	renamePart := path[braceStart+1 : braceEnd]
	suffix := path[braceEnd+1:]

	if !strings.Contains(renamePart, " => ") {
		return "", ""
	}

	renameParts := strings.SplitN(renamePart, " => ", 2)
	oldPath := collapseSlashes(prefix + renameParts[0] + suffix)
	newPath := collapseSlashes(prefix + renameParts[1] + suffix)
	return oldPath, newPath
}

// collapseSlashes removes the doubled slash left behind when one side of a
// braced rename is empty, e.g. "dir/{ => sub}/file" yields "dir//file".
func collapseSlashes(path string) string {
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	return path
}

package scmlog

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/quantifio/codemetrics/schema"
)

// Structures mirroring the svn log --xml -v output.
type svnLog struct {
	XMLName xml.Name      `xml:"log"`
	Entries []svnLogEntry `xml:"logentry"`
}

type svnLogEntry struct {
	Revision string    `xml:"revision,attr"`
	Author   string    `xml:"author"`
	Date     string    `xml:"date"`
	Message  string    `xml:"msg"`
	Paths    []svnPath `xml:"paths>path"`
}

type svnPath struct {
	TextMods     string `xml:"text-mods,attr"`
	Kind         string `xml:"kind,attr"`
	Action       string `xml:"action,attr"`
	PropMods     string `xml:"prop-mods,attr"`
	CopyFromRev  string `xml:"copyfrom-rev,attr"`
	CopyFromPath string `xml:"copyfrom-path,attr"`
	Path         string `xml:",chardata"`
}

// relativeURLRe captures the relative URL line of svn info output, e.g.
// "Relative URL: ^/project/trunk".
var relativeURLRe = regexp.MustCompile(`^Relative URL: \^(.*?)/?$`)

// ParseRelativeURL extracts the repository-relative URL from svn info
// output. The log reports absolute repository paths, so this prefix is
// needed to turn them into working copy relative paths. Returns an empty
// string when the line is absent.
func ParseRelativeURL(infoOut []byte) string {
	for line := range strings.SplitSeq(string(infoOut), "\n") {
		line = strings.TrimRight(line, "\r")
		if match := relativeURLRe.FindStringSubmatch(line); match != nil {
			return match[1]
		}
	}
	return ""
}

// ParseSvnLog converts svn log --xml -v output into log entries. Paths are
// made relative by stripping the relative URL prefix, message newlines
// become spaces, and added/removed counts stay null since svn log does not
// report them (see BackfillCounts).
func ParseSvnLog(out []byte, relativeURL string) ([]schema.LogEntry, error) {
	var parsed svnLog
	if err := xml.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("malformed svn log xml: %w", err)
	}

	prefix := ""
	if relativeURL != "" {
		prefix = relativeURL + "/"
	}

	var entries []schema.LogEntry
	for _, logEntry := range parsed.Entries {
		date, err := parseSvnDate(logEntry.Date)
		if err != nil {
			return nil, fmt.Errorf("malformed date in svn revision %s: %w", logEntry.Revision, err)
		}
		message := strings.ReplaceAll(logEntry.Message, "\n", " ")

		for _, p := range logEntry.Paths {
			path := p.Path
			if prefix != "" {
				path = strings.Replace(path, prefix, "", 1)
			}
			textMods, err := parseSvnBool(p.TextMods)
			if err != nil {
				return nil, fmt.Errorf("malformed text-mods in svn revision %s: %w", logEntry.Revision, err)
			}
			propMods, err := parseSvnBool(p.PropMods)
			if err != nil {
				return nil, fmt.Errorf("malformed prop-mods in svn revision %s: %w", logEntry.Revision, err)
			}

			entries = append(entries, schema.LogEntry{
				Revision:     logEntry.Revision,
				Author:       logEntry.Author,
				Date:         date,
				TextMods:     textMods,
				Kind:         normalizeSvnKind(p.Kind),
				Action:       p.Action,
				PropMods:     propMods,
				Path:         path,
				Message:      message,
				CopyFromRev:  p.CopyFromRev,
				CopyFromPath: p.CopyFromPath,
			})
		}
	}

	return entries, nil
}

// parseSvnDate handles the timestamps svn emits, e.g.
// "2018-02-24T11:14:11.000000Z". Dates are UTC per the svn book.
func parseSvnDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseSvnBool converts the svn attribute representation to a bool. A
// missing attribute arrives as the empty string and counts as false.
func parseSvnBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "t":
		return true, nil
	case "false", "0", "f", "":
		return false, nil
	default:
		return false, fmt.Errorf("cannot interpret %q as a bool", s)
	}
}

// normalizeSvnKind maps svn node kinds onto the single-letter kinds used by
// the git side, so reports treat both tools uniformly.
func normalizeSvnKind(kind string) string {
	switch kind {
	case "file":
		return "f"
	case "dir":
		return "d"
	default:
		return kind
	}
}

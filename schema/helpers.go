package schema

import (
	"strings"
	"unicode"
)

// AbbreviateAuthor shortens "Ada Lovelace" to "Ada L" for table display.
// Single-part names and bot accounts (e.g. dependabot[bot]) pass through
// unchanged.
func AbbreviateAuthor(name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.Contains(trimmed, "[bot]") {
		return trimmed
	}

	parts := strings.Fields(trimmed)
	if len(parts) < 2 {
		return trimmed
	}

	last := []rune(parts[len(parts)-1])
	initial := ""
	for _, r := range last {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			initial = string(r)
			break
		}
	}
	if initial == "" {
		return parts[0]
	}
	return parts[0] + " " + initial
}

// TruncateMessage trims a commit message to max runes for table display,
// replacing the tail with an ellipsis. Newlines become spaces first.
func TruncateMessage(msg string, max int) string {
	flat := strings.Join(strings.Fields(msg), " ")
	if max <= 0 {
		return flat
	}
	rr := []rune(flat)
	if len(rr) <= max {
		return flat
	}
	if max <= 3 {
		return string(rr[:max])
	}
	return string(rr[:max-3]) + "..."
}

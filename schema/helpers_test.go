package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbbreviateAuthor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"popcorn", "popcorn"},
		{"Ada Lovelace", "Ada L"},
		{"First Second Third", "First T"},
		{"  Alice  ", "Alice"},
		{"John   Doe", "John D"},
		{"dependabot[bot]", "dependabot[bot]"},
		{"Hans Müller", "Hans M"},
		{"李 明", "李 明"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbbreviateAuthor(tt.name))
		})
	}
}

func TestTruncateMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		max  int
		want string
	}{
		{"short message unchanged", "fix bug", 20, "fix bug"},
		{"long message truncated", "refactor the entire parser module", 20, "refactor the enti..."},
		{"newlines collapse", "first line\nsecond line", 80, "first line second line"},
		{"zero max keeps all", "keep everything", 0, "keep everything"},
		{"exact length unchanged", "12345", 5, "12345"},
		{"tiny max has no ellipsis", "abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateMessage(tt.msg, tt.max))
		})
	}
}

func TestSeverityThresholds(t *testing.T) {
	assert.Equal(t, CriticalSeverity, CouplingSeverity(1.0))
	assert.Equal(t, CriticalSeverity, CouplingSeverity(0.8))
	assert.Equal(t, HighSeverity, CouplingSeverity(0.5))
	assert.Equal(t, ModerateSeverity, CouplingSeverity(0.2))
	assert.Equal(t, LowSeverity, CouplingSeverity(0.19))
	assert.Equal(t, LowSeverity, CouplingSeverity(0))

	assert.Equal(t, CriticalSeverity, ScoreSeverity(2.0))
	assert.Equal(t, HighSeverity, ScoreSeverity(1.2))
	assert.Equal(t, ModerateSeverity, ScoreSeverity(0.5))
	assert.Equal(t, LowSeverity, ScoreSeverity(0.1))
}

func TestNullableCounts(t *testing.T) {
	assert.Equal(t, 0, IntOrZero(nil))
	assert.Equal(t, 7, IntOrZero(IntPtr(7)))
}

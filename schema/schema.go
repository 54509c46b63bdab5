// Package schema has the row models, enums and helpers shared by all parts of codemetrics.
package schema

import "time"

// LogEntry represents one changed file in one commit, parsed from the
// version control log. Entries are immutable once parsed.
//
// Added and Removed are nil when the tool reports no line counts for the
// change (binary files under git, all svn log entries before diff
// enrichment).
type LogEntry struct {
	Revision     string    `json:"revision" parquet:"revision,snappy"`
	Author       string    `json:"author" parquet:"author,snappy"`
	Date         time.Time `json:"date" parquet:"date,snappy"`
	TextMods     bool      `json:"textmods" parquet:"textmods,snappy"`
	Kind         string    `json:"kind" parquet:"kind,snappy"`     // "f" for file, "d" for directory
	Action       string    `json:"action" parquet:"action,snappy"` // A, M, D, R as reported by the tool
	PropMods     bool      `json:"propmods" parquet:"propmods,snappy"`
	Path         string    `json:"path" parquet:"path,snappy"`
	Message      string    `json:"message" parquet:"message,snappy"`
	Added        *int      `json:"added" parquet:"added,optional,snappy"`
	Removed      *int      `json:"removed" parquet:"removed,optional,snappy"`
	CopyFromRev  string    `json:"copyfromrev,omitempty" parquet:"copyfromrev,snappy"`
	CopyFromPath string    `json:"copyfrompath,omitempty" parquet:"copyfrompath,snappy"`
}

// LocEntry represents one file in a cloc report.
type LocEntry struct {
	Language string `json:"language" parquet:"language,snappy"`
	Path     string `json:"path" parquet:"path,snappy"`
	Blank    int    `json:"blank" parquet:"blank,snappy"`
	Comment  int    `json:"comment" parquet:"comment,snappy"`
	Code     int    `json:"code" parquet:"code,snappy"`
}

// FunctionComplexity represents one function of one file at a specific
// revision, as reported by the complexity analyzer.
type FunctionComplexity struct {
	Path                 string `json:"path" parquet:"path,snappy"`
	Revision             string `json:"revision" parquet:"revision,snappy"`
	Name                 string `json:"name" parquet:"name,snappy"`
	LongName             string `json:"long_name" parquet:"long_name,snappy"`
	CyclomaticComplexity int    `json:"cyclomatic_complexity" parquet:"cyclomatic_complexity,snappy"`
	NLOC                 int    `json:"nloc" parquet:"nloc,snappy"`
	TokenCount           int    `json:"token_count" parquet:"token_count,snappy"`
	ParamCount           int    `json:"param_count" parquet:"param_count,snappy"`
	Length               int    `json:"length" parquet:"length,snappy"`
	StartLine            int    `json:"start_line" parquet:"start_line,snappy"`
	EndLine              int    `json:"end_line" parquet:"end_line,snappy"`
}

// IntPtr returns a pointer to v. Convenience for building nullable counts.
func IntPtr(v int) *int {
	return &v
}

// IntOrZero dereferences a nullable count, treating nil as zero.
func IntOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

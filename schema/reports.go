package schema

import "time"

// AgeRow represents the age of one file: the elapsed time since the file
// last changed, in fractional days.
type AgeRow struct {
	Path       string    `json:"path" parquet:"path,snappy"`
	LastChange time.Time `json:"last_change" parquet:"last_change,snappy"`
	AgeDays    float64   `json:"age_days" parquet:"age_days,snappy"`
}

// HotSpotRow joins line counts with per-path change frequency. Score is the
// sum of the min-max scaled changes and complexity values, so it falls in
// [0, 2].
type HotSpotRow struct {
	Path            string  `json:"path" parquet:"path,snappy"`
	Language        string  `json:"language" parquet:"language,snappy"`
	Code            int     `json:"code" parquet:"code,snappy"`
	Changes         int     `json:"changes" parquet:"changes,snappy"`
	ChangesScore    float64 `json:"changes_score" parquet:"changes_score,snappy"`
	ComplexityScore float64 `json:"complexity_score" parquet:"complexity_score,snappy"`
	Score           float64 `json:"score" parquet:"score,snappy"`
}

// CoChangeRow describes how often Secondary changed in the same revision as
// Primary. Coupling is CoChanges divided by the number of revisions that
// touched Primary, so it falls in [0, 1].
type CoChangeRow struct {
	Primary   string  `json:"primary" parquet:"primary,snappy"`
	Secondary string  `json:"secondary" parquet:"secondary,snappy"`
	Changes   int     `json:"changes" parquet:"changes,snappy"`
	CoChanges int     `json:"cochanges" parquet:"cochanges,snappy"`
	Coupling  float64 `json:"coupling" parquet:"coupling,snappy"`
}

// MassChangeRow represents one revision that touched at least the configured
// number of files.
type MassChangeRow struct {
	Revision  string `json:"revision" parquet:"revision,snappy"`
	PathCount int    `json:"path_count" parquet:"path_count,snappy"`
	Author    string `json:"author" parquet:"author,snappy"`
	Message   string `json:"message" parquet:"message,snappy"`
}

// ComponentRow assigns a file path to a guessed logical component.
type ComponentRow struct {
	Path      string `json:"path" parquet:"path,snappy"`
	Component string `json:"component" parquet:"component,snappy"`
}

// CheckKind discriminates policy findings.
type CheckKind string

// All check finding kinds.
const (
	ScoreFinding    CheckKind = "score"
	CouplingFinding CheckKind = "coupling"
)

// CheckFinding represents one threshold violation found by the check command.
type CheckFinding struct {
	Kind      CheckKind `json:"kind"`
	Subject   string    `json:"subject"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
}

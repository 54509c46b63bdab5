// Package parquet provides data structures and functions for exporting
// codemetrics run history and report rows to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/quantifio/codemetrics/schema"
)

// Run represents a single recorded command execution with metadata.
// This struct maps to the codemetrics_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Command is the report command that produced the run
	Command string `parquet:"command,snappy"`

	// RepoPath is the repository the command ran against
	RepoPath string `parquet:"repo_path,snappy"`

	// SCM names the source control tool used (git or svn)
	SCM string `parquet:"scm,snappy"`

	// WindowStart is the inclusive lower bound of the analysis window (nullable)
	WindowStart *time.Time `parquet:"window_start,optional,snappy"`

	// WindowEnd is the exclusive upper bound of the analysis window (nullable)
	WindowEnd *time.Time `parquet:"window_end,optional,snappy"`

	// RowCount is the number of report rows the run produced
	RowCount int32 `parquet:"row_count,snappy"`

	// DurationMS is how long the run took in milliseconds
	DurationMS int64 `parquet:"duration_ms,snappy"`

	// Status is the terminal state of the run (started, ok or failed)
	Status string `parquet:"status,snappy"`

	// Version is the build version of the binary that recorded the run
	Version string `parquet:"version,snappy"`

	// CreatedAt is when the run started (stored as TIMESTAMP with nanosecond precision)
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// RunHotSpot represents one ranked hot-spot row persisted for a run.
// This struct maps to the codemetrics_run_hotspots database table.
type RunHotSpot struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// FilePath is the relative path to the file in the repository
	FilePath string `parquet:"file_path,snappy"`

	// Language is the language cloc detected for the file (nullable)
	Language *string `parquet:"language,optional,snappy"`

	// Code is the number of code lines in the file
	Code int32 `parquet:"code,snappy"`

	// Changes is the number of revisions that touched the file
	Changes int32 `parquet:"changes,snappy"`

	// ChangesScore is the min-max scaled change frequency (0-1)
	ChangesScore float64 `parquet:"changes_score,snappy"`

	// ComplexityScore is the min-max scaled line count (0-1)
	ComplexityScore float64 `parquet:"complexity_score,snappy"`

	// Score is the combined hot-spot score (0-2)
	Score float64 `parquet:"score,snappy"`

	// CreatedAt is when the row was recorded
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// WriteRows writes any tagged row slice to a Parquet file. The schema is
// derived from the parquet struct tags of T.
func WriteRows[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)

	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	// Close flushes the footer, so its error matters
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	return nil
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return WriteRows(data, outputPath)
}

// WriteRunHotSpotsParquet writes a slice of RunHotSpot structs to a Parquet file.
func WriteRunHotSpotsParquet(data []RunHotSpot, outputPath string) error {
	return WriteRows(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:       record.ID,
			Command:     record.Command,
			RepoPath:    record.RepoPath,
			SCM:         record.SCM,
			WindowStart: optionalTime(record.WindowStart),
			WindowEnd:   optionalTime(record.WindowEnd),
			RowCount:    int32(record.RowCount),
			DurationMS:  record.DurationMS,
			Status:      record.Status,
			Version:     record.Version,
			CreatedAt:   record.CreatedAt,
		}
	}
	return result
}

// ConvertHotSpotRecords converts schema.HotSpotRecord to RunHotSpot for Parquet export.
func ConvertHotSpotRecords(records []schema.HotSpotRecord) []RunHotSpot {
	result := make([]RunHotSpot, len(records))
	for i, record := range records {
		result[i] = RunHotSpot{
			RunID:           record.RunID,
			FilePath:        record.Path,
			Language:        optionalString(record.Language),
			Code:            record.Code,
			Changes:         record.Changes,
			ChangesScore:    record.ChangesScore,
			ComplexityScore: record.ComplexityScore,
			Score:           record.Score,
			CreatedAt:       record.CreatedAt,
		}
	}
	return result
}

// optionalTime maps the zero time to nil for nullable columns.
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// optionalString maps the empty string to nil for nullable columns.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// MockFetchRuns generates sample Run data for demonstration.
func MockFetchRuns() []Run {
	now := time.Now()
	windowStart1 := now.AddDate(-1, 0, 0)
	windowEnd1 := now
	windowStart2 := now.AddDate(0, -6, 0)

	return []Run{
		{
			RunID:       1,
			Command:     "hotspots",
			RepoPath:    "/work/service",
			SCM:         "git",
			WindowStart: &windowStart1,
			WindowEnd:   &windowEnd1,
			RowCount:    150,
			DurationMS:  5400,
			Status:      schema.RunStatusOK,
			Version:     "1.2.3",
			CreatedAt:   now.Add(-2 * time.Hour),
		},
		{
			RunID:       2,
			Command:     "cochanges",
			RepoPath:    "/work/service",
			SCM:         "git",
			WindowStart: &windowStart2,
			WindowEnd:   nil, // Open-ended window - nullable field
			RowCount:    75,
			DurationMS:  2100,
			Status:      schema.RunStatusOK,
			Version:     "1.2.3",
			CreatedAt:   now.Add(-24 * time.Hour),
		},
		{
			RunID:       3,
			Command:     "complexity",
			RepoPath:    "/work/tooling",
			SCM:         "svn",
			WindowStart: nil, // Full history - nullable field
			WindowEnd:   nil,
			RowCount:    0,
			DurationMS:  300,
			Status:      schema.RunStatusFailed,
			Version:     "1.2.3",
			CreatedAt:   now.Add(-10 * time.Minute),
		},
	}
}

// MockFetchRunHotSpots generates sample RunHotSpot data for demonstration.
func MockFetchRunHotSpots() []RunHotSpot {
	now := time.Now()
	langGo := "Go"
	langYAML := "YAML"

	return []RunHotSpot{
		{
			RunID:           1,
			FilePath:        "internal/server/handler.go",
			Language:        &langGo,
			Code:            850,
			Changes:         42,
			ChangesScore:    1.0,
			ComplexityScore: 0.9,
			Score:           1.9,
			CreatedAt:       now.Add(-2 * time.Hour),
		},
		{
			RunID:           1,
			FilePath:        "internal/server/routes.go",
			Language:        &langGo,
			Code:            320,
			Changes:         18,
			ChangesScore:    0.4,
			ComplexityScore: 0.3,
			Score:           0.7,
			CreatedAt:       now.Add(-2 * time.Hour),
		},
		{
			RunID:           1,
			FilePath:        "deploy/values.yaml",
			Language:        &langYAML,
			Code:            125,
			Changes:         5,
			ChangesScore:    0.1,
			ComplexityScore: 0.1,
			Score:           0.2,
			CreatedAt:       now.Add(-2 * time.Hour),
		},
		{
			RunID:           2,
			FilePath:        "scripts/migrate",
			Language:        nil, // cloc could not classify it - nullable field
			Code:            60,
			Changes:         2,
			ChangesScore:    0.0,
			ComplexityScore: 0.0,
			Score:           0.0,
			CreatedAt:       now.Add(-24 * time.Hour),
		},
	}
}

package outwriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/schema"
)

// testConfig returns a config suitable for writer tests: plain labels, no
// emoji markers, fixed width so terminal detection never runs.
func testConfig(output schema.OutputMode, outputFile string) *contract.Config {
	return &contract.Config{
		Output:       output,
		OutputFile:   outputFile,
		Precision:    2,
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}
}

func sampleHotSpots() []schema.HotSpotRow {
	return []schema.HotSpotRow{
		{Path: "core/core.go", Language: "Go", Code: 900, Changes: 24, ChangesScore: 1.0, ComplexityScore: 0.8, Score: 1.8},
		{Path: "cmd/root.go", Language: "Go", Code: 150, Changes: 4, ChangesScore: 0.1, ComplexityScore: 0.1, Score: 0.2},
	}
}

func TestWriteHotSpotsToFile(t *testing.T) {
	tests := []struct {
		name     string
		output   schema.OutputMode
		contains []string
	}{
		{
			name:     "json includes rank and label",
			output:   schema.JSONOut,
			contains: []string{`"rank": 1`, `"label": "critical"`, `"path": "core/core.go"`},
		},
		{
			name:     "csv includes header and rows",
			output:   schema.CSVOut,
			contains: []string{"rank,path,language,code,changes", "1,core/core.go,Go,900,24", "critical"},
		},
		{
			name:     "chart emits a vega-lite spec",
			output:   schema.ChartOut,
			contains: []string{"vega-lite", `"mark"`, `"core/core.go"`},
		},
		{
			name:     "table renders all paths",
			output:   schema.TextOut,
			contains: []string{"core/core.go", "cmd/root.go", "Showing 2 files"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outFile := filepath.Join(t.TempDir(), "out.txt")
			cfg := testConfig(tt.output, outFile)

			err := NewOutWriter().WriteHotSpots(sampleHotSpots(), cfg, time.Second)
			require.NoError(t, err)

			data, err := os.ReadFile(outFile)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, string(data), want)
			}
		})
	}
}

func TestWriteParquetRequiresOutputFile(t *testing.T) {
	cfg := testConfig(schema.ParquetOut, "")

	err := NewOutWriter().WriteHotSpots(sampleHotSpots(), cfg, time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file")
}

func TestWriteParquetProducesFile(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "hotspots.parquet")
	cfg := testConfig(schema.ParquetOut, outFile)

	err := NewOutWriter().WriteHotSpots(sampleHotSpots(), cfg, time.Second)
	require.NoError(t, err)

	info, err := os.Stat(outFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestChartUnsupportedReports(t *testing.T) {
	cfg := testConfig(schema.ChartOut, "")
	ow := NewOutWriter()

	tests := []struct {
		name string
		run  func() error
	}{
		{"log", func() error { return ow.WriteLog(nil, cfg, 0) }},
		{"loc", func() error { return ow.WriteLoc(nil, cfg, 0) }},
		{"masschanges", func() error { return ow.WriteMassChanges(nil, cfg, 0) }},
		{"complexity", func() error { return ow.WriteComplexity(nil, cfg, 0) }},
		{"components", func() error { return ow.WriteComponents(nil, cfg, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "chart output is not available")
		})
	}
}

func TestWriteLogCSVKeepsNullCounts(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "log.csv")
	cfg := testConfig(schema.CSVOut, outFile)
	rows := []schema.LogEntry{
		{
			Revision: "abc1234",
			Author:   "Ada Lovelace",
			Date:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Kind:     "f",
			Action:   "M",
			Path:     "assets/logo.png",
			Message:  "update logo",
			TextMods: true,
		},
	}

	err := NewOutWriter().WriteLog(rows, cfg, time.Second)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	// Binary files carry no counts; git numstat prints them as "-".
	assert.Contains(t, string(data), "assets/logo.png,update logo,-,-")
}

func TestWriteAgesCSVPrecision(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "ages.csv")
	cfg := testConfig(schema.CSVOut, outFile)
	cfg.Precision = 3
	rows := []schema.AgeRow{
		{Path: "a.go", LastChange: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), AgeDays: 12.34567},
	}

	err := NewOutWriter().WriteAges(rows, cfg, time.Second)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "12.346")
}

package outwriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantifio/codemetrics/schema"
)

func sampleCoChanges() []schema.CoChangeRow {
	return []schema.CoChangeRow{
		{Primary: "core/a.go", Secondary: "core/a_test.go", Changes: 10, CoChanges: 10, Coupling: 1.0},
		{Primary: "core/a.go", Secondary: "schema/rows.go", Changes: 10, CoChanges: 3, Coupling: 0.3},
	}
}

func TestWriteCoChangesCSV(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "cochanges.csv")
	cfg := testConfig(schema.CSVOut, outFile)

	err := NewOutWriter().WriteCoChanges(sampleCoChanges(), cfg, time.Second)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "rank,primary,secondary,changes,cochanges,coupling,label")
	assert.Contains(t, content, "1,core/a.go,core/a_test.go,10,10,1.00,critical")
	assert.Contains(t, content, "2,core/a.go,schema/rows.go,10,3,0.30,moderate")
}

func TestWriteCoChangesJSONRanksRows(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "cochanges.json")
	cfg := testConfig(schema.JSONOut, outFile)

	err := NewOutWriter().WriteCoChanges(sampleCoChanges(), cfg, time.Second)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `"rank": 1`)
	assert.Contains(t, content, `"rank": 2`)
	assert.Contains(t, content, `"coupling": 1`)
	assert.Contains(t, content, `"label": "critical"`)
}

func TestWriteCoChangesTableLabels(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "cochanges.txt")
	cfg := testConfig(schema.TextOut, outFile)

	err := NewOutWriter().WriteCoChanges(sampleCoChanges(), cfg, time.Second)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "critical")
	assert.Contains(t, content, "moderate")
	assert.Contains(t, content, "Showing 2 pairs")
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lizardCSV is a representative lizard --csv report with the header line that
// some lizard versions emit. Rows are deliberately out of ranking order.
var lizardCSV = []byte(`NLOC,CCN,token,PARAM,length,location,file,function,long_name,start,end
8,2,60,1,10,"helper@5-14@/tmp/stage/server.go",/tmp/stage/server.go,helper,helper ( n int ),5,14
30,9,240,2,40,"handle@20-59@/tmp/stage/server.go",/tmp/stage/server.go,handle,handle ( w , r ),20,59
12,9,90,0,15,"setup@1-15@/tmp/stage/server.go",/tmp/stage/server.go,setup,setup (),1,15
`)

// TestParseLizardOutput tests row extraction and ranking.
func TestParseLizardOutput(t *testing.T) {
	rows, err := ParseLizardOutput(lizardCSV, "pkg/server.go", "abc1234")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Worst complexity leads; the CCN tie breaks by start line.
	assert.Equal(t, "setup", rows[0].Name)
	assert.Equal(t, "handle", rows[1].Name)
	assert.Equal(t, "helper", rows[2].Name)

	handle := rows[1]
	assert.Equal(t, "pkg/server.go", handle.Path)
	assert.Equal(t, "abc1234", handle.Revision)
	assert.Equal(t, "handle ( w , r )", handle.LongName)
	assert.Equal(t, 9, handle.CyclomaticComplexity)
	assert.Equal(t, 30, handle.NLOC)
	assert.Equal(t, 240, handle.TokenCount)
	assert.Equal(t, 2, handle.ParamCount)
	assert.Equal(t, 40, handle.Length)
	assert.Equal(t, 20, handle.StartLine)
	assert.Equal(t, 59, handle.EndLine)

	// The reported file column is replaced by the requested path.
	for _, r := range rows {
		assert.Equal(t, "pkg/server.go", r.Path)
	}
}

// TestParseLizardOutputEmpty ensures a file without functions yields no rows.
func TestParseLizardOutputEmpty(t *testing.T) {
	rows, err := ParseLizardOutput([]byte("NLOC,CCN,token,PARAM,length,location,file,function,long_name,start,end\n"), "a.go", "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// TestParseLizardOutputMalformed ensures broken records fail loudly.
func TestParseLizardOutputMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "record too short",
			input: "8,2,60,1,10,loc,file\n",
		},
		{
			name:  "non-numeric ccn",
			input: "8,x,60,1,10,loc,file,f,f (),5,14\n",
		},
		{
			name:  "non-numeric start line",
			input: "8,2,60,1,10,loc,file,f,f (),x,14\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLizardOutput([]byte(tt.input), "a.go", "")
			assert.Error(t, err)
		})
	}
}

// TestComplexityTotals tests the footer sums.
func TestComplexityTotals(t *testing.T) {
	rows, err := ParseLizardOutput(lizardCSV, "pkg/server.go", "")
	require.NoError(t, err)

	nloc, tokens := ComplexityTotals(rows)
	assert.Equal(t, 50, nloc)
	assert.Equal(t, 390, tokens)

	nloc, tokens = ComplexityTotals(nil)
	assert.Zero(t, nloc)
	assert.Zero(t, tokens)
}

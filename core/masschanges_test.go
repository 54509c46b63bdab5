package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantifio/codemetrics/schema"
)

// TestComputeMassChanges tests the threshold and ranking of bulk revisions.
func TestComputeMassChanges(t *testing.T) {
	entries := []schema.LogEntry{
		{Revision: "r1", Author: "alice", Message: "rename module", Path: "a.go"},
		{Revision: "r1", Author: "alice", Message: "rename module", Path: "b.go"},
		{Revision: "r1", Author: "alice", Message: "rename module", Path: "c.go"},
		{Revision: "r2", Author: "bob", Message: "fix typo", Path: "a.go"},
		{Revision: "r2", Author: "bob", Message: "fix typo", Path: "b.go"},
		{Revision: "r3", Author: "carol", Message: "reformat", Path: "a.go"},
		{Revision: "r3", Author: "carol", Message: "reformat", Path: "b.go"},
		{Revision: "r3", Author: "carol", Message: "reformat", Path: "c.go"},
		{Revision: "r3", Author: "carol", Message: "reformat", Path: "d.go"},
	}

	rows := ComputeMassChanges(entries, 2)
	require.Len(t, rows, 2)

	// The threshold is strict, so r2 with exactly two paths is out.
	assert.Equal(t, schema.MassChangeRow{
		Revision:  "r3",
		PathCount: 4,
		Author:    "carol",
		Message:   "reformat",
	}, rows[0])
	assert.Equal(t, "r1", rows[1].Revision)
	assert.Equal(t, 3, rows[1].PathCount)
}

// TestComputeMassChangesTieOrder breaks equal path counts by revision.
func TestComputeMassChangesTieOrder(t *testing.T) {
	entries := []schema.LogEntry{
		{Revision: "r9", Path: "a.go"},
		{Revision: "r9", Path: "b.go"},
		{Revision: "r2", Path: "a.go"},
		{Revision: "r2", Path: "b.go"},
	}

	rows := ComputeMassChanges(entries, 1)
	require.Len(t, rows, 2)
	assert.Equal(t, "r2", rows[0].Revision)
	assert.Equal(t, "r9", rows[1].Revision)
}

// TestComputeMassChangesFirstSeenMetadata keeps the author and message of
// the first row seen for a revision.
func TestComputeMassChangesFirstSeenMetadata(t *testing.T) {
	entries := []schema.LogEntry{
		{Revision: "r1", Author: "alice", Message: "first", Path: "a.go"},
		{Revision: "r1", Author: "", Message: "", Path: "b.go"},
	}

	rows := ComputeMassChanges(entries, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Author)
	assert.Equal(t, "first", rows[0].Message)
}

// TestComputeMassChangesEmpty ensures nothing qualifies from an empty log.
func TestComputeMassChangesEmpty(t *testing.T) {
	assert.Empty(t, ComputeMassChanges(nil, 0))
}

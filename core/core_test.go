package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/schema"
)

var gitLogFixture = []byte(`[abc1234] [alice] [2023-05-01 10:00:00 +0000] [add parser]
10	2	core/parse.go
3	1	cmd/root.go

[def5678] [bob] [2023-05-02 11:00:00 +0000] [fix bug]
5	0	core/parse.go
`)

var svnInfoFixture = []byte(`Path: .
URL: https://svn.example.com/repo/project/trunk
Relative URL: ^/project/trunk
Repository Root: https://svn.example.com/repo
Revision: 42
`)

var svnLogFixture = []byte(`<?xml version="1.0" encoding="UTF-8"?>
<log>
<logentry revision="41">
<author>alice</author>
<date>2023-05-01T10:00:00.000000Z</date>
<paths>
<path text-mods="true" kind="file" action="M" prop-mods="false">/project/trunk/src/a.go</path>
</paths>
<msg>change a</msg>
</logentry>
</log>
`)

var svnDiffFixture = []byte(`Index: src/a.go
===================================================================
diff --git a/project/trunk/src/a.go b/project/trunk/src/a.go
--- a/project/trunk/src/a.go	(revision 40)
+++ b/project/trunk/src/a.go	(revision 41)
@@ -1,3 +1,5 @@
 package a
+func New() {}
+
 var x = 1
-var y = 2
`)

// noStoreManager builds a manager with all stores disabled.
func noStoreManager() *contract.MockStoreManager {
	mgr := &contract.MockStoreManager{}
	mgr.On("GetCacheStore").Return(nil)
	mgr.On("GetRunsStore").Return(nil)
	return mgr
}

// TestFetchLogEntriesGit parses the git change log through the cache layer.
func TestFetchLogEntriesGit(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{
		RepoPath: "/repo",
		SCM:      schema.GitSCM,
		After:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Before:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	client := &contract.MockSCMClient{}
	client.On("GetStateToken", ctx, "/repo").Return("state123", nil)
	client.On("GetChangeLog", ctx, "/repo", "", cfg.After, cfg.Before).Return(gitLogFixture, nil)

	entries, err := fetchLogEntries(ctx, cfg, &toolset{client: client}, noStoreManager())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "abc1234", entries[0].Revision)
	assert.Equal(t, "alice", entries[0].Author)
	assert.Equal(t, "core/parse.go", entries[0].Path)
	assert.Equal(t, 10, schema.IntOrZero(entries[0].Added))
	assert.Equal(t, 2, schema.IntOrZero(entries[0].Removed))
	assert.Equal(t, "def5678", entries[2].Revision)

	client.AssertExpectations(t)
}

// TestFetchLogEntriesExcludes drops excluded paths after parsing.
func TestFetchLogEntriesExcludes(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{
		RepoPath: "/repo",
		SCM:      schema.GitSCM,
		Excludes: []string{"cmd/"},
	}

	client := &contract.MockSCMClient{}
	client.On("GetStateToken", ctx, "/repo").Return("state123", nil)
	client.On("GetChangeLog", ctx, "/repo", "", cfg.After, cfg.Before).Return(gitLogFixture, nil)

	entries, err := fetchLogEntries(ctx, cfg, &toolset{client: client}, noStoreManager())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "core/parse.go", e.Path)
	}
}

// TestFetchLogEntriesSvn parses the XML log, relativizes paths and backfills
// line counts from the per-revision diff.
func TestFetchLogEntriesSvn(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{
		RepoPath: "/repo",
		SCM:      schema.SvnSCM,
	}

	client := &contract.MockSvnClient{}
	client.On("GetStateToken", ctx, "/repo").Return("42", nil)
	client.On("GetInfo", ctx, "/repo").Return(svnInfoFixture, nil)
	client.On("GetChangeLog", ctx, "/repo", "", cfg.After, cfg.Before).Return(svnLogFixture, nil)
	client.On("GetDiff", ctx, "/repo", "41").Return(svnDiffFixture, nil)

	entries, err := fetchLogEntries(ctx, cfg, &toolset{client: client}, noStoreManager())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "41", entry.Revision)
	assert.Equal(t, "src/a.go", entry.Path)
	assert.Equal(t, "f", entry.Kind)
	assert.Equal(t, 2, schema.IntOrZero(entry.Added))
	assert.Equal(t, 1, schema.IntOrZero(entry.Removed))

	client.AssertExpectations(t)
}

// TestFetchLocEntries parses line counts through the cache layer.
func TestFetchLocEntries(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{
		RepoPath: "/repo",
		SCM:      schema.GitSCM,
		Excludes: []string{"docs/"},
	}

	client := &contract.MockSCMClient{}
	client.On("GetStateToken", ctx, "/repo").Return("state123", nil)

	counter := &contract.MockLineCounter{}
	counter.On("Count", ctx, "/repo", "").Return([]byte(
		"Go,./core/parse.go,10,5,100\nMarkdown,docs/guide.md,0,0,30\n"), nil)

	rows, err := fetchLocEntries(ctx, cfg, &toolset{client: client, counter: counter}, noStoreManager())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "core/parse.go", rows[0].Path)
	assert.Equal(t, 100, rows[0].Code)

	counter.AssertExpectations(t)
}

// TestComputeHotSpotRows joins log and loc through mocked tools.
func TestComputeHotSpotRows(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{
		RepoPath: "/repo",
		SCM:      schema.GitSCM,
		Join:     schema.OuterJoin,
	}

	client := &contract.MockSCMClient{}
	client.On("GetStateToken", ctx, "/repo").Return("state123", nil)
	client.On("GetChangeLog", ctx, "/repo", "", cfg.After, cfg.Before).Return(gitLogFixture, nil)

	counter := &contract.MockLineCounter{}
	counter.On("Count", ctx, "/repo", "").Return([]byte(
		"Go,core/parse.go,10,5,100\nGo,cmd/root.go,2,1,20\n"), nil)

	rows, err := computeHotSpotRows(ctx, cfg, &toolset{client: client, counter: counter}, noStoreManager())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// core/parse.go has both more changes and more code.
	assert.Equal(t, "core/parse.go", rows[0].Path)
	assert.Equal(t, 2, rows[0].Changes)
	assert.InDelta(t, 2.0, rows[0].Score, 0.001)
	assert.Equal(t, "cmd/root.go", rows[1].Path)
	assert.Zero(t, rows[1].Score)
}

// TestComputeComplexityRowsRequiresPath refuses to run without a file path.
func TestComputeComplexityRowsRequiresPath(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{RepoPath: "/repo", SCM: schema.GitSCM}

	_, err := computeComplexityRows(ctx, cfg, &toolset{}, noStoreManager())
	assert.ErrorContains(t, err, "file path")
}

// TestComputeComplexityRowsPinnedRevision skips the state token when the
// revision is explicit, since pinned content cannot change.
func TestComputeComplexityRowsPinnedRevision(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{
		RepoPath:   "/repo",
		SCM:        schema.GitSCM,
		PathFilter: "pkg/server.go",
		Revision:   "abc1234",
	}

	client := &contract.MockSCMClient{}
	client.On("Download", ctx, "/repo", "abc1234", "pkg/server.go").Return([]byte("package server"), nil)

	analyzer := &contract.MockComplexityAnalyzer{}
	analyzer.On("Analyze", ctx, mock.AnythingOfType("string")).Return(lizardCSV, nil)

	rows, err := computeComplexityRows(ctx, cfg, &toolset{client: client, analyzer: analyzer}, noStoreManager())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "pkg/server.go", rows[0].Path)
	assert.Equal(t, "abc1234", rows[0].Revision)

	client.AssertNotCalled(t, "GetStateToken", mock.Anything, mock.Anything)
	client.AssertExpectations(t)
	analyzer.AssertExpectations(t)
}

// TestComputeComplexityRowsHead keys the cache on repository state when the
// revision floats.
func TestComputeComplexityRowsHead(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{
		RepoPath:   "/repo",
		SCM:        schema.GitSCM,
		PathFilter: "pkg/server.go",
	}

	client := &contract.MockSCMClient{}
	client.On("GetStateToken", ctx, "/repo").Return("state123", nil)
	client.On("Download", ctx, "/repo", "", "pkg/server.go").Return([]byte("package server"), nil)

	analyzer := &contract.MockComplexityAnalyzer{}
	analyzer.On("Analyze", ctx, mock.AnythingOfType("string")).Return(lizardCSV, nil)

	rows, err := computeComplexityRows(ctx, cfg, &toolset{client: client, analyzer: analyzer}, noStoreManager())
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	client.AssertExpectations(t)
}

// TestStageAndAnalyze stages content under a temp dir that keeps the base
// name and disappears afterwards.
func TestStageAndAnalyze(t *testing.T) {
	ctx := context.Background()

	var staged string
	analyzer := &contract.MockComplexityAnalyzer{}
	analyzer.On("Analyze", ctx, mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
		staged = args.String(1)
		content, err := os.ReadFile(staged)
		require.NoError(t, err)
		assert.Equal(t, []byte("package server"), content)
	}).Return([]byte("csv"), nil)

	out, err := stageAndAnalyze(ctx, analyzer, "pkg/server.go", []byte("package server"))
	require.NoError(t, err)
	assert.Equal(t, []byte("csv"), out)
	assert.Equal(t, "server.go", filepath.Base(staged))

	// The staging directory is cleaned up once the analyzer returns.
	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err))
}

// TestDistinctPaths dedupes, drops empties and sorts.
func TestDistinctPaths(t *testing.T) {
	entries := []schema.LogEntry{
		{Revision: "r1", Path: "b.go"},
		{Revision: "r2", Path: "a.go"},
		{Revision: "r3", Path: "b.go"},
		{Revision: "r3", Path: ""},
	}

	assert.Equal(t, []string{"a.go", "b.go"}, distinctPaths(entries))
}

// TestFilterLogEntries applies exclude patterns to parsed entries.
func TestFilterLogEntries(t *testing.T) {
	entries := []schema.LogEntry{
		{Path: "vendor/lib/x.go"},
		{Path: "core/parse.go"},
		{Path: "web/app.min.js"},
	}

	filtered := filterLogEntries(entries, []string{"vendor/", "*.min.js"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "core/parse.go", filtered[0].Path)
}

// TestFilterLocEntries applies exclude patterns to line count rows.
func TestFilterLocEntries(t *testing.T) {
	rows := []schema.LocEntry{
		{Path: "vendor/lib/x.go", Code: 10},
		{Path: "core/parse.go", Code: 20},
	}

	filtered := filterLocEntries(rows, []string{"vendor/"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "core/parse.go", filtered[0].Path)
}

// TestNewToolset wires the local tools for the configured SCM.
func TestNewToolset(t *testing.T) {
	gitTools := newToolset(&contract.Config{SCM: schema.GitSCM})
	assert.Equal(t, schema.GitSCM, gitTools.client.Kind())

	svnTools := newToolset(&contract.Config{SCM: schema.SvnSCM})
	assert.Equal(t, schema.SvnSCM, svnTools.client.Kind())
}

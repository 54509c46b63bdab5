// Package core has core logic for parsing, scoring and report assembly.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/quantifio/codemetrics/core/scmlog"
	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/outwriter"
	"github.com/quantifio/codemetrics/schema"
)

// Report names recorded with each run.
const (
	logReport         = "log"
	locReport         = "loc"
	agesReport        = "ages"
	hotSpotsReport    = "hotspots"
	coChangesReport   = "cochanges"
	massChangesReport = "masschanges"
	complexityReport  = "complexity"
	componentsReport  = "components"
	checkReport       = "check"
)

// ExecutorFunc defines the function signature for executing report commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// toolset bundles the external tools one report run drives. Reports receive
// it instead of constructing tools themselves so tests can substitute mocks.
type toolset struct {
	client   contract.SCMClient
	counter  contract.LineCounter
	analyzer contract.ComplexityAnalyzer
}

// newToolset builds the local toolset for the configured SCM and binaries.
func newToolset(cfg *contract.Config) *toolset {
	return &toolset{
		client:   contract.NewSCMClient(cfg.SCM),
		counter:  contract.NewClocRunner(cfg.ClocBin),
		analyzer: contract.NewLizardRunner(cfg.LizardBin),
	}
}

// ExecuteLog prints the parsed change log entries for the configured window.
// It serves as the main entry point for the 'log' command.
func ExecuteLog(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	printReportHeader(ctx, cfg, logReport)
	runID := beginRun(mgr, cfg, logReport)

	entries, err := fetchLogEntries(ctx, cfg, newToolset(cfg), mgr)
	if err != nil {
		endRun(mgr, runID, 0, start, err)
		return err
	}
	rows := capRows(entries, cfg.ResultLimit)
	endRun(mgr, runID, len(rows), start, nil)

	return outwriter.NewOutWriter().WriteLog(rows, cfg, time.Since(start))
}

// ExecuteLoc prints per-file line counts for the working copy.
// It serves as the main entry point for the 'loc' command.
func ExecuteLoc(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	printReportHeader(ctx, cfg, locReport)
	runID := beginRun(mgr, cfg, locReport)

	rows, err := fetchLocEntries(ctx, cfg, newToolset(cfg), mgr)
	if err != nil {
		endRun(mgr, runID, 0, start, err)
		return err
	}
	// Largest files first so the cap keeps the heaviest code.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Code != rows[j].Code {
			return rows[i].Code > rows[j].Code
		}
		return rows[i].Path < rows[j].Path
	})
	rows = capRows(rows, cfg.ResultLimit)
	endRun(mgr, runID, len(rows), start, nil)

	return outwriter.NewOutWriter().WriteLoc(rows, cfg, time.Since(start))
}

// GetAgeResults computes the age report and returns the ranked rows.
func GetAgeResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.AgeRow, time.Duration, error) {
	start := time.Now()
	printReportHeader(ctx, cfg, agesReport)
	runID := beginRun(mgr, cfg, agesReport)

	entries, err := fetchLogEntries(ctx, cfg, newToolset(cfg), mgr)
	if err != nil {
		endRun(mgr, runID, 0, start, err)
		return nil, 0, err
	}
	rows := capRows(ComputeAges(entries, contract.GetNow()), cfg.ResultLimit)
	endRun(mgr, runID, len(rows), start, nil)

	return rows, time.Since(start), nil
}

// ExecuteAges prints how long ago each file last changed, stalest first.
// It serves as the main entry point for the 'ages' command.
func ExecuteAges(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	rows, duration, err := GetAgeResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAges(rows, cfg, duration)
}

// GetHotSpotResults computes the hot-spot report and returns the ranked rows.
func GetHotSpotResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.HotSpotRow, time.Duration, error) {
	start := time.Now()
	printReportHeader(ctx, cfg, hotSpotsReport)
	runID := beginRun(mgr, cfg, hotSpotsReport)

	rows, err := computeHotSpotRows(ctx, cfg, newToolset(cfg), mgr)
	if err != nil {
		endRun(mgr, runID, 0, start, err)
		return nil, 0, err
	}
	ranked := capRows(rows, cfg.ResultLimit)
	endRun(mgr, runID, len(ranked), start, nil)
	recordHotSpots(mgr, runID, ranked)

	return ranked, time.Since(start), nil
}

// ExecuteHotSpots prints the files where change frequency and code size
// concentrate. It serves as the main entry point for the 'hotspots' command.
func ExecuteHotSpots(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	rows, duration, err := GetHotSpotResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteHotSpots(rows, cfg, duration)
}

// GetCoChangeResults computes the co-change report and returns the ranked rows.
func GetCoChangeResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.CoChangeRow, time.Duration, error) {
	start := time.Now()
	printReportHeader(ctx, cfg, coChangesReport)
	runID := beginRun(mgr, cfg, coChangesReport)

	rows, err := computeCoChangeRows(ctx, cfg, newToolset(cfg), mgr)
	if err != nil {
		endRun(mgr, runID, 0, start, err)
		return nil, 0, err
	}
	ranked := capRows(rows, cfg.ResultLimit)
	endRun(mgr, runID, len(ranked), start, nil)

	return ranked, time.Since(start), nil
}

// ExecuteCoChanges prints which paths tend to change in the same revision.
// It serves as the main entry point for the 'cochanges' command.
func ExecuteCoChanges(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	rows, duration, err := GetCoChangeResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCoChanges(rows, cfg, duration)
}

// GetMassChangeResults computes the mass-change report and returns the
// ranked rows.
func GetMassChangeResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.MassChangeRow, time.Duration, error) {
	start := time.Now()
	printReportHeader(ctx, cfg, massChangesReport)
	runID := beginRun(mgr, cfg, massChangesReport)

	entries, err := fetchLogEntries(ctx, cfg, newToolset(cfg), mgr)
	if err != nil {
		endRun(mgr, runID, 0, start, err)
		return nil, 0, err
	}
	rows := capRows(ComputeMassChanges(entries, cfg.MinChanges), cfg.ResultLimit)
	endRun(mgr, runID, len(rows), start, nil)

	return rows, time.Since(start), nil
}

// ExecuteMassChanges prints revisions that touched many files at once.
// It serves as the main entry point for the 'masschanges' command.
func ExecuteMassChanges(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	rows, duration, err := GetMassChangeResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteMassChanges(rows, cfg, duration)
}

// ExecuteComplexity prints per-function complexity for one file at a pinned
// revision. It serves as the main entry point for the 'complexity' command.
func ExecuteComplexity(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	printReportHeader(ctx, cfg, complexityReport)
	runID := beginRun(mgr, cfg, complexityReport)

	rows, err := computeComplexityRows(ctx, cfg, newToolset(cfg), mgr)
	if err != nil {
		endRun(mgr, runID, 0, start, err)
		return err
	}
	rows = capRows(rows, cfg.ResultLimit)
	endRun(mgr, runID, len(rows), start, nil)

	return outwriter.NewOutWriter().WriteComplexity(rows, cfg, time.Since(start))
}

// ExecuteComponents guesses logical components from the paths in the change
// log and prints the assignments. It serves as the main entry point for the
// 'components' command.
func ExecuteComponents(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	printReportHeader(ctx, cfg, componentsReport)
	runID := beginRun(mgr, cfg, componentsReport)

	rows, err := computeComponentRows(ctx, cfg, newToolset(cfg), mgr)
	if err != nil {
		endRun(mgr, runID, 0, start, err)
		return err
	}
	rows = capRows(rows, cfg.ResultLimit)
	endRun(mgr, runID, len(rows), start, nil)

	return outwriter.NewOutWriter().WriteComponents(rows, cfg, time.Since(start))
}

// --- Report assembly ---

// computeHotSpotRows joins change counts against line counts and scores the
// result.
func computeHotSpotRows(ctx context.Context, cfg *contract.Config, tools *toolset, mgr contract.StoreManager) ([]schema.HotSpotRow, error) {
	entries, err := fetchLogEntries(ctx, cfg, tools, mgr)
	if err != nil {
		return nil, err
	}
	loc, err := fetchLocEntries(ctx, cfg, tools, mgr)
	if err != nil {
		return nil, err
	}
	return ComputeHotSpots(entries, loc, cfg.Join), nil
}

// computeCoChangeRows counts coupled changes, optionally grouping paths into
// guessed components first.
func computeCoChangeRows(ctx context.Context, cfg *contract.Config, tools *toolset, mgr contract.StoreManager) ([]schema.CoChangeRow, error) {
	entries, err := fetchLogEntries(ctx, cfg, tools, mgr)
	if err != nil {
		return nil, err
	}

	var keyOf func(schema.LogEntry) string
	if cfg.GroupComponents {
		components, err := GuessComponents(distinctPaths(entries), cfg.StopWords, cfg.Clusters)
		if err != nil {
			return nil, err
		}
		lookup := ComponentLookup(components)
		keyOf = func(e schema.LogEntry) string {
			if c, ok := lookup[e.Path]; ok && c != "" {
				return c
			}
			return e.Path
		}
	}

	return ComputeCoChanges(entries, keyOf, cfg.MinCoupling), nil
}

// computeComplexityRows analyzes the configured file at the pinned revision.
func computeComplexityRows(ctx context.Context, cfg *contract.Config, tools *toolset, mgr contract.StoreManager) ([]schema.FunctionComplexity, error) {
	if cfg.PathFilter == "" {
		return nil, errors.New("complexity requires a file path inside the repository")
	}

	revision := cfg.Revision
	state := ""
	if revision == "" || revision == "HEAD" {
		// HEAD content moves with the repository, so the cache key must too.
		var err error
		state, err = tools.client.GetStateToken(ctx, cfg.RepoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read repository state: %w", err)
		}
	}

	out, err := cachedToolOutput(mgr, "lizard", []string{cfg.RepoPath, revision, cfg.PathFilter}, state, func() ([]byte, error) {
		content, err := tools.client.Download(ctx, cfg.RepoPath, revision, cfg.PathFilter)
		if err != nil {
			return nil, err
		}
		return stageAndAnalyze(ctx, tools.analyzer, cfg.PathFilter, content)
	})
	if err != nil {
		return nil, err
	}

	return ParseLizardOutput(out, cfg.PathFilter, revision)
}

// computeComponentRows clusters the distinct paths seen in the log.
func computeComponentRows(ctx context.Context, cfg *contract.Config, tools *toolset, mgr contract.StoreManager) ([]schema.ComponentRow, error) {
	entries, err := fetchLogEntries(ctx, cfg, tools, mgr)
	if err != nil {
		return nil, err
	}
	return GuessComponents(distinctPaths(entries), cfg.StopWords, cfg.Clusters)
}

// stageAndAnalyze writes content under a temporary directory and runs the
// analyzer on the staged copy. The staged file keeps its original base name
// since the analyzer detects language from the extension.
func stageAndAnalyze(ctx context.Context, analyzer contract.ComplexityAnalyzer, path string, content []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "codemetrics-*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	staged := filepath.Join(tmpDir, filepath.Base(path))
	if err := os.WriteFile(staged, content, 0o600); err != nil {
		return nil, err
	}
	return analyzer.Analyze(ctx, staged)
}

// --- Tool access ---

// fetchLogEntries retrieves and parses the change log for the configured
// window. Raw tool output is cached keyed on repository state, so repeated
// reports against an unchanged working copy skip the tool entirely.
func fetchLogEntries(ctx context.Context, cfg *contract.Config, tools *toolset, mgr contract.StoreManager) ([]schema.LogEntry, error) {
	state, err := tools.client.GetStateToken(ctx, cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository state: %w", err)
	}

	logArgs := []string{
		"log", cfg.RepoPath, cfg.PathFilter,
		cfg.After.Format(contract.DateTimeFormat),
		cfg.Before.Format(contract.DateTimeFormat),
	}

	var entries []schema.LogEntry
	if svnClient, ok := tools.client.(contract.SvnClient); ok && cfg.SCM == schema.SvnSCM {
		entries, err = fetchSvnLogEntries(ctx, cfg, svnClient, mgr, state, logArgs)
	} else {
		entries, err = fetchGitLogEntries(ctx, cfg, tools.client, mgr, state, logArgs)
	}
	if err != nil {
		return nil, err
	}

	return filterLogEntries(entries, cfg.Excludes), nil
}

// fetchGitLogEntries retrieves the numstat log and parses it.
func fetchGitLogEntries(ctx context.Context, cfg *contract.Config, client contract.SCMClient, mgr contract.StoreManager, state string, logArgs []string) ([]schema.LogEntry, error) {
	out, err := cachedToolOutput(mgr, "git-log", logArgs, state, func() ([]byte, error) {
		return client.GetChangeLog(ctx, cfg.RepoPath, cfg.PathFilter, cfg.After, cfg.Before)
	})
	if err != nil {
		return nil, err
	}
	return scmlog.ParseGitLog(out)
}

// fetchSvnLogEntries retrieves the XML log, normalizes its paths relative to
// the working copy, and backfills line counts from per-revision diffs. svn
// log carries no line counts of its own.
func fetchSvnLogEntries(ctx context.Context, cfg *contract.Config, client contract.SvnClient, mgr contract.StoreManager, state string, logArgs []string) ([]schema.LogEntry, error) {
	infoOut, err := cachedToolOutput(mgr, "svn-info", []string{cfg.RepoPath}, state, func() ([]byte, error) {
		return client.GetInfo(ctx, cfg.RepoPath)
	})
	if err != nil {
		return nil, err
	}
	relativeURL := scmlog.ParseRelativeURL(infoOut)

	out, err := cachedToolOutput(mgr, "svn-log", logArgs, state, func() ([]byte, error) {
		return client.GetChangeLog(ctx, cfg.RepoPath, cfg.PathFilter, cfg.After, cfg.Before)
	})
	if err != nil {
		return nil, err
	}
	entries, err := scmlog.ParseSvnLog(out, relativeURL)
	if err != nil {
		return nil, err
	}

	// A diff is pinned to its revision, so its cache entry never goes stale.
	fetchDiff := func(revision string) ([]byte, error) {
		return cachedToolOutput(mgr, "svn-diff", []string{cfg.RepoPath, revision}, "", func() ([]byte, error) {
			return client.GetDiff(ctx, cfg.RepoPath, revision)
		})
	}
	return scmlog.BackfillCounts(entries, fetchDiff), nil
}

// fetchLocEntries runs the line counter over the working copy and parses
// its CSV report.
func fetchLocEntries(ctx context.Context, cfg *contract.Config, tools *toolset, mgr contract.StoreManager) ([]schema.LocEntry, error) {
	state, err := tools.client.GetStateToken(ctx, cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository state: %w", err)
	}

	out, err := cachedToolOutput(mgr, "cloc", []string{cfg.RepoPath, cfg.PathFilter}, state, func() ([]byte, error) {
		return tools.counter.Count(ctx, cfg.RepoPath, cfg.PathFilter)
	})
	if err != nil {
		return nil, err
	}
	rows, err := ParseClocOutput(out)
	if err != nil {
		return nil, err
	}
	return filterLocEntries(rows, cfg.Excludes), nil
}

// --- Filtering ---

// filterLogEntries drops entries whose paths match the exclude patterns.
func filterLogEntries(entries []schema.LogEntry, excludes []string) []schema.LogEntry {
	filtered := make([]schema.LogEntry, 0, len(entries))
	for _, e := range entries {
		if !contract.ShouldIgnore(e.Path, excludes) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// filterLocEntries drops rows whose paths match the exclude patterns.
func filterLocEntries(rows []schema.LocEntry, excludes []string) []schema.LocEntry {
	filtered := make([]schema.LocEntry, 0, len(rows))
	for _, r := range rows {
		if !contract.ShouldIgnore(r.Path, excludes) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// distinctPaths returns the sorted set of paths seen in the log.
func distinctPaths(entries []schema.LogEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Path == "" {
			continue
		}
		if _, ok := seen[e.Path]; ok {
			continue
		}
		seen[e.Path] = struct{}{}
		paths = append(paths, e.Path)
	}
	sort.Strings(paths)
	return paths
}

// --- Headers and run tracking ---

// printReportHeader prints the report header unless the context or output
// mode forbids it. Structured payloads own stdout, so the header would
// corrupt them.
func printReportHeader(ctx context.Context, cfg *contract.Config, report string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	if cfg.Output != schema.TextOut && cfg.OutputFile == "" {
		return
	}
	contract.LogReportHeader(cfg, report)
}

// beginRun opens a run record when run tracking is active. A zero ID means
// tracking is off or unavailable.
func beginRun(mgr contract.StoreManager, cfg *contract.Config, command string) int64 {
	runs := mgr.GetRunsStore()
	if runs == nil {
		return 0
	}
	runID, err := runs.BeginRun(schema.RunRecord{
		Command:     command,
		RepoPath:    cfg.RepoPath,
		SCM:         string(cfg.SCM),
		WindowStart: cfg.After,
		WindowEnd:   cfg.Before,
		Version:     BuildVersion,
	})
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return 0
	}
	return runID
}

// endRun finalizes a run record opened by beginRun.
func endRun(mgr contract.StoreManager, runID int64, rowCount int, start time.Time, runErr error) {
	if runID <= 0 {
		return
	}
	runs := mgr.GetRunsStore()
	if runs == nil {
		return
	}
	status := schema.RunStatusOK
	if runErr != nil {
		status = schema.RunStatusFailed
	}
	if err := runs.EndRun(runID, rowCount, time.Since(start).Milliseconds(), status); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// recordHotSpots persists the ranked rows when run tracking is active.
func recordHotSpots(mgr contract.StoreManager, runID int64, rows []schema.HotSpotRow) {
	if runID <= 0 {
		return
	}
	runs := mgr.GetRunsStore()
	if runs == nil {
		return
	}
	if err := runs.RecordHotSpots(runID, rows); err != nil {
		contract.LogWarn("Run tracking failed for RecordHotSpots", err)
	}
}

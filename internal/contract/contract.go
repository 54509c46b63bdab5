// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/quantifio/codemetrics/schema"
)

// SCMClient defines the operations codemetrics needs from a version control
// tool. This allows the report logic to be tested without a real git or svn
// executable.
type SCMClient interface {
	// Kind reports which tool this client drives.
	Kind() schema.SCMKind

	// --- Generic / Low-Level ---

	// Run executes a tool command in the repository and returns its stdout.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- History ---

	// GetChangeLog returns the raw change log output for relPath, limited to
	// commits after and before the given times. Zero times mean unbounded.
	GetChangeLog(ctx context.Context, repoPath, relPath string, after, before time.Time) ([]byte, error)

	// --- File State / Content ---

	// Download returns the content of path at the given revision.
	Download(ctx context.Context, repoPath, revision, path string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the working copy
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetStateToken returns a token identifying the current state of the
	// repository (HEAD hash for git, revision number for svn). Cache keys
	// embed it so keys change when history does.
	GetStateToken(ctx context.Context, repoPath string) (string, error)
}

// SvnClient extends SCMClient with the svn-only operations needed to
// enrich log entries, since svn log reports no per-file line counts.
type SvnClient interface {
	SCMClient

	// GetInfo returns the raw output of svn info for the working copy.
	GetInfo(ctx context.Context, repoPath string) ([]byte, error)

	// GetDiff returns the raw git-style diff of a single revision.
	GetDiff(ctx context.Context, repoPath, revision string) ([]byte, error)
}

// LineCounter runs the external line-counting tool against a directory of
// the working copy and returns its raw CSV report.
type LineCounter interface {
	// Count runs the counter from repoPath against relPath ("" means the
	// whole working copy). Reported file paths come back relative to
	// repoPath so they line up with change log paths.
	Count(ctx context.Context, repoPath, relPath string) ([]byte, error)
}

// ComplexityAnalyzer runs the external complexity tool against a file on
// disk and returns its raw CSV report.
type ComplexityAnalyzer interface {
	Analyze(ctx context.Context, filePath string) ([]byte, error)
}

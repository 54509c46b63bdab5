package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/quantifio/codemetrics/schema"
)

// GitLogFormat is the pretty format used for change log retrieval. Each
// header line carries revision, author, date and subject in brackets.
const GitLogFormat = "[%h] [%an] [%ad] [%s]"

// LocalGitClient implements the SCMClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ SCMClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Kind implements the SCMClient interface.
func (c *LocalGitClient) Kind() schema.SCMKind {
	return schema.GitSCM
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(_ context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.Command("git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetChangeLog implements the SCMClient interface. Output pairs bracketed
// header lines with numstat lines (added, removed, path separated by tabs).
func (c *LocalGitClient) GetChangeLog(ctx context.Context, repoPath, relPath string, after, before time.Time) ([]byte, error) {
	args := []string{
		"log",
		"--pretty=format:" + GitLogFormat,
		"--date=iso",
		"--numstat",
	}
	if !after.IsZero() {
		args = append(args, "--after="+after.Format(DateOnlyFormat))
	}
	if !before.IsZero() {
		args = append(args, "--before="+before.Format(DateOnlyFormat))
	}
	if relPath == "" {
		relPath = "."
	}
	args = append(args, "--", relPath)
	return c.Run(ctx, repoPath, args...)
}

// Download implements the SCMClient interface.
func (c *LocalGitClient) Download(ctx context.Context, repoPath, revision, path string) ([]byte, error) {
	if revision == "" {
		revision = "HEAD"
	}
	return c.Run(ctx, repoPath, "show", revision+":"+path)
}

// GetRepoRoot implements the SCMClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetStateToken implements the SCMClient interface.
func (c *LocalGitClient) GetStateToken(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

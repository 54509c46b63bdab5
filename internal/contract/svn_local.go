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

// LocalSvnClient implements the SvnClient interface by executing the
// local 'svn' binary installed on the machine.
type LocalSvnClient struct{}

var _ SvnClient = &LocalSvnClient{} // Compile-time check

// NewLocalSvnClient creates a new instance of the local svn client.
func NewLocalSvnClient() *LocalSvnClient {
	return &LocalSvnClient{}
}

// Kind implements the SCMClient interface.
func (c *LocalSvnClient) Kind() schema.SCMKind {
	return schema.SvnSCM
}

// Run executes an svn command in the working copy and returns its stdout.
// svn has no -C equivalent, so the command runs with its working directory
// set to repoPath.
func (c *LocalSvnClient) Run(_ context.Context, repoPath string, args ...string) ([]byte, error) {
	cmd := exec.Command("svn", args...)
	cmd.Dir = repoPath
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("svn command failed in %q: %s. If this is not an svn working copy, verify the path or run 'svn checkout'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("svn command failed: %w. Ensure svn is installed and available on your PATH", err)
	}
	return out, nil
}

// GetChangeLog implements the SCMClient interface. Output is the XML log
// with per-path verbose entries. svn accepts dates in braces as revision
// boundaries.
func (c *LocalSvnClient) GetChangeLog(ctx context.Context, repoPath, relPath string, after, before time.Time) ([]byte, error) {
	lower := "1"
	if !after.IsZero() {
		lower = "{" + after.Format(DateOnlyFormat) + "}"
	}
	upper := "HEAD"
	if !before.IsZero() {
		upper = "{" + before.Format(DateOnlyFormat) + "}"
	}
	args := []string{"log", "--xml", "-v", "-r", lower + ":" + upper}
	if relPath != "" && relPath != "." {
		args = append(args, relPath)
	}
	return c.Run(ctx, repoPath, args...)
}

// Download implements the SCMClient interface.
func (c *LocalSvnClient) Download(ctx context.Context, repoPath, revision, path string) ([]byte, error) {
	args := []string{"cat"}
	if revision != "" {
		args = append(args, "-r", revision)
	}
	args = append(args, path)
	return c.Run(ctx, repoPath, args...)
}

// GetRepoRoot implements the SCMClient interface.
func (c *LocalSvnClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "info", "--show-item", "wc-root")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetStateToken implements the SCMClient interface.
func (c *LocalSvnClient) GetStateToken(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "info", "--show-item", "revision")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetInfo implements the SvnClient interface.
func (c *LocalSvnClient) GetInfo(ctx context.Context, repoPath string) ([]byte, error) {
	return c.Run(ctx, repoPath, "info")
}

// GetDiff implements the SvnClient interface.
func (c *LocalSvnClient) GetDiff(ctx context.Context, repoPath, revision string) ([]byte, error) {
	return c.Run(ctx, repoPath, "diff", "--git", "-c", revision)
}

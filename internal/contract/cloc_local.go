package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ClocRunner implements the LineCounter interface by executing the cloc
// script installed on the machine.
type ClocRunner struct {
	// Binary is the cloc executable to invoke. Defaults to "cloc".
	Binary string
}

var _ LineCounter = &ClocRunner{} // Compile-time check

// NewClocRunner creates a new instance of the cloc runner.
func NewClocRunner(binary string) *ClocRunner {
	if binary == "" {
		binary = "cloc"
	}
	return &ClocRunner{Binary: binary}
}

// Count implements the LineCounter interface. The report is CSV with one
// record per file. The command runs with its working directory set to
// repoPath so reported paths stay repository-relative.
func (c *ClocRunner) Count(_ context.Context, repoPath, relPath string) ([]byte, error) {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return nil, fmt.Errorf("%s not found: %w. Install cloc (https://github.com/AlDanial/cloc) and ensure it is on your PATH", c.Binary, err)
	}
	if relPath == "" {
		relPath = "."
	}
	cmd := exec.Command(c.Binary, "--csv", "--by-file", relPath)
	cmd.Dir = repoPath
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("%s failed on %q: %s", c.Binary, relPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("%s failed on %q: %w", c.Binary, relPath, err)
	}
	return out, nil
}

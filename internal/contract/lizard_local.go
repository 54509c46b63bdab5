package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LizardRunner implements the ComplexityAnalyzer interface by executing the
// lizard tool installed on the machine.
type LizardRunner struct {
	// Binary is the lizard executable to invoke. Defaults to "lizard".
	Binary string
}

var _ ComplexityAnalyzer = &LizardRunner{} // Compile-time check

// NewLizardRunner creates a new instance of the lizard runner.
func NewLizardRunner(binary string) *LizardRunner {
	if binary == "" {
		binary = "lizard"
	}
	return &LizardRunner{Binary: binary}
}

// Analyze implements the ComplexityAnalyzer interface. The report is CSV
// with one record per function. Language detection relies on the file
// extension, so callers must preserve it when staging content to disk.
func (c *LizardRunner) Analyze(_ context.Context, filePath string) ([]byte, error) {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return nil, fmt.Errorf("%s not found: %w. Install lizard (pip install lizard) and ensure it is on your PATH", c.Binary, err)
	}
	cmd := exec.Command(c.Binary, "--csv", filePath)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("%s failed on %q: %s", c.Binary, filePath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("%s failed on %q: %w", c.Binary, filePath, err)
	}
	return out, nil
}

package outwriter

import (
	"os"

	"github.com/quantifio/codemetrics/internal/contract"
	"golang.org/x/term"
)

// Path width clamps for table output.
const (
	minPathWidth = 15
	maxPathWidth = 70
)

// maxTablePathWidth calculates the maximum width for file paths in table
// output based on terminal width and the space the report's other columns
// reserve.
func maxTablePathWidth(cfg *contract.Config, reserved int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve generous space for table borders, separators, and padding
	reserved += 20

	available := termWidth - reserved
	if available < minPathWidth {
		return minPathWidth
	}
	if available > maxPathWidth {
		return maxPathWidth
	}
	return available
}

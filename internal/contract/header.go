package contract

import (
	"fmt"
	"path/filepath"
	"time"
)

// DescribeWindow renders a report time window. A zero boundary reads as the
// full history on that side.
func DescribeWindow(after, before time.Time) string {
	start := "beginning"
	if !after.IsZero() {
		start = after.Format(DateOnlyFormat)
	}
	end := "now"
	if !before.IsZero() {
		end = before.Format(DateOnlyFormat)
	}
	return fmt.Sprintf("%s → %s", start, end)
}

// LogReportHeader prints a concise, 2-line header for each report run.
func LogReportHeader(cfg *Config, report string) {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}

	window := DescribeWindow(cfg.After, cfg.Before)
	if cfg.UseEmojis {
		// Line 1: the report summary (repo and report name)
		fmt.Printf("🔎 Repo: %s (Report: %s)\n", repoName, report)
		// Line 2: the actual date range being analyzed
		fmt.Printf("📅 Range: %s\n", window)
	} else {
		fmt.Printf("Repo: %s (Report: %s)\n", repoName, report)
		fmt.Printf("Range: %s\n", window)
	}
}

package core

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/schema"
)

// maxCheckViolationsShown caps how many violations print per finding kind.
const maxCheckViolationsShown = 5

// BuildCheckFindings compares hot-spot scores and coupling ratios against
// their thresholds. A value must strictly exceed its threshold to count as
// a violation. Score findings come first, each group ordered worst first.
func BuildCheckFindings(hotspots []schema.HotSpotRow, cochanges []schema.CoChangeRow, maxScore, maxCoupling float64) []schema.CheckFinding {
	findings := make([]schema.CheckFinding, 0)

	scoreRows := make([]schema.HotSpotRow, 0)
	for _, r := range hotspots {
		if r.Score > maxScore {
			scoreRows = append(scoreRows, r)
		}
	}
	sort.Slice(scoreRows, func(i, j int) bool {
		if scoreRows[i].Score != scoreRows[j].Score {
			return scoreRows[i].Score > scoreRows[j].Score
		}
		return scoreRows[i].Path < scoreRows[j].Path
	})
	for _, r := range scoreRows {
		findings = append(findings, schema.CheckFinding{
			Kind:      schema.ScoreFinding,
			Subject:   r.Path,
			Value:     r.Score,
			Threshold: maxScore,
		})
	}

	couplingRows := make([]schema.CoChangeRow, 0)
	for _, r := range cochanges {
		if r.Coupling > maxCoupling {
			couplingRows = append(couplingRows, r)
		}
	}
	sort.Slice(couplingRows, func(i, j int) bool {
		if couplingRows[i].Coupling != couplingRows[j].Coupling {
			return couplingRows[i].Coupling > couplingRows[j].Coupling
		}
		if couplingRows[i].Primary != couplingRows[j].Primary {
			return couplingRows[i].Primary < couplingRows[j].Primary
		}
		return couplingRows[i].Secondary < couplingRows[j].Secondary
	})
	for _, r := range couplingRows {
		// Coupling is directional: coupling(a, b) and coupling(b, a) divide
		// by different change counts, so the subject names both ends.
		findings = append(findings, schema.CheckFinding{
			Kind:      schema.CouplingFinding,
			Subject:   fmt.Sprintf("%s -> %s", r.Primary, r.Secondary),
			Value:     r.Coupling,
			Threshold: maxCoupling,
		})
	}

	return findings
}

// ExecuteCheck runs the policy gate for CI/CD use. It computes the hot-spot
// and co-change reports, checks them against thresholds, and exits non-zero
// if any value crosses its threshold.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	runID := beginRun(mgr, cfg, checkReport)

	tools := newToolset(cfg)
	hotspots, err := computeHotSpotRows(ctx, cfg, tools, mgr)
	if err != nil {
		endRun(mgr, runID, 0, start, err)
		return err
	}
	cochanges, err := computeCoChangeRows(ctx, cfg, tools, mgr)
	if err != nil {
		endRun(mgr, runID, 0, start, err)
		return err
	}

	findings := BuildCheckFindings(hotspots, cochanges, cfg.MaxScore, cfg.MaxCoupling)
	endRun(mgr, runID, len(findings), start, nil)

	printCheckHeader(cfg, len(hotspots), len(cochanges), time.Since(start))
	if len(findings) == 0 {
		printCheckSuccess(cfg, hotspots, cochanges)
		return nil
	}

	printCheckFailure(cfg, findings)
	fmt.Printf("%d violation(s) found\n", len(findings))
	os.Exit(1)
	return nil
}

// printCheckHeader prints the common header information for check results.
func printCheckHeader(cfg *contract.Config, hotspotCount, couplingCount int, duration time.Duration) {
	fmt.Println("Policy Check Results:")

	// Define labels and values for dynamic padding
	labels := []string{"Repo:", "Range:", "Thresholds:"}
	values := []any{
		cfg.RepoPath,
		contract.DescribeWindow(cfg.After, cfg.Before),
		fmt.Sprintf("score=%.2f, coupling=%.2f", cfg.MaxScore, cfg.MaxCoupling),
	}

	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}

	// Print each label-value pair with consistent padding
	for i, label := range labels {
		fmt.Printf("  %-*s %v\n", maxLabelLen+1, label, values[i])
	}
	fmt.Println()

	fmt.Printf("Checked %d hot spots and %d couplings in %v\n\n", hotspotCount, couplingCount, duration)
}

// printCheckSuccess prints the success case output.
func printCheckSuccess(cfg *contract.Config, hotspots []schema.HotSpotRow, cochanges []schema.CoChangeRow) {
	if cfg.UseEmojis {
		fmt.Printf("✅ All paths passed policy checks\n\n")
	} else {
		fmt.Printf("All paths passed policy checks\n\n")
	}
	fmt.Println("Maxima observed:")

	maxScore, scoreSubject := 0.0, ""
	for _, r := range hotspots {
		if r.Score > maxScore {
			maxScore, scoreSubject = r.Score, r.Path
		}
	}
	printCheckMaximum("score", maxScore, scoreSubject)

	maxCoupling, couplingSubject := 0.0, ""
	for _, r := range cochanges {
		if r.Coupling > maxCoupling {
			maxCoupling, couplingSubject = r.Coupling, fmt.Sprintf("%s -> %s", r.Primary, r.Secondary)
		}
	}
	printCheckMaximum("coupling", maxCoupling, couplingSubject)
}

// printCheckMaximum prints one observed maximum, with its subject when any
// rows existed.
func printCheckMaximum(metric string, value float64, subject string) {
	if subject == "" {
		fmt.Printf("  %s: max=%.2f\n", metric, value)
		return
	}
	fmt.Printf("  %s: max=%.2f (%s)\n", metric, value, subject)
}

// printCheckFailure prints the failure case output, grouped by finding kind.
func printCheckFailure(cfg *contract.Config, findings []schema.CheckFinding) {
	if cfg.UseEmojis {
		fmt.Printf("❌ Policy check failed: %d violation(s) found\n\n", len(findings))
	} else {
		fmt.Printf("Policy check failed: %d violation(s) found\n\n", len(findings))
	}

	kindGroups := make(map[schema.CheckKind][]schema.CheckFinding)
	for _, f := range findings {
		kindGroups[f.Kind] = append(kindGroups[f.Kind], f)
	}

	for _, kind := range []schema.CheckKind{schema.ScoreFinding, schema.CouplingFinding} {
		group := kindGroups[kind]
		if len(group) == 0 {
			continue
		}

		fmt.Printf("Kind: %s (%d violations)\n", kind, len(group))

		// Show the top violations, with "+X more" if needed
		shown := 0
		for _, f := range group {
			if shown >= maxCheckViolationsShown {
				fmt.Printf("  ... and %d more\n", len(group)-shown)
				break
			}
			fmt.Printf("  - %s (value: %.2f > threshold: %.2f)\n", f.Subject, f.Value, f.Threshold)
			shown++
		}
		fmt.Println()
	}
}

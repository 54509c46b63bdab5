package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/vega"
	"github.com/quantifio/codemetrics/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeHotSpotRows outputs the hot-spot ranking, dispatching based on the
// output format configured.
func writeHotSpotRows(rows []schema.HotSpotRow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeHotSpotsJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeHotSpotsCSV(w, rows, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg, rows, "Wrote Parquet")
	case schema.ChartOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, vega.HotSpotsSpec(rows))
		}, "Wrote chart spec")
	default:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeHotSpotsTable(rows, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// writeHotSpotsTable generates and writes the human-readable table.
func writeHotSpotsTable(rows []schema.HotSpotRow, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Path", "Language", "Code", "Changes", "Score", "Label"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// Rank + Language + Code + Changes + Score + Label columns
	pathWidth := maxTablePathWidth(cfg, 55)

	var data [][]string
	for i, r := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Path, pathWidth),
			r.Language,
			fmt.Sprintf(intFmt, r.Code),
			fmt.Sprintf(intFmt, r.Changes),
			fmtFloat(r.Score),
			severityLabel(cfg, schema.ScoreSeverity(r.Score)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalChanges := 0
	totalCode := 0
	for _, r := range rows {
		totalChanges += r.Changes
		totalCode += r.Code
	}
	if _, err := fmt.Fprintf(writer, "Top %d files (total changes: %d, total code lines: %d)\n", len(rows), totalChanges, totalCode); err != nil {
		return err
	}
	return writeReportFooter(writer, cfg, len(rows), "files", duration)
}

// writeHotSpotsCSV writes hot-spot rows in CSV format.
func writeHotSpotsCSV(w io.Writer, rows []schema.HotSpotRow, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"rank", "path", "language", "code", "changes", "changes_score", "complexity_score", "score", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range rows {
			rec := []string{
				strconv.Itoa(i + 1),
				r.Path,
				r.Language,
				fmt.Sprintf(intFmt, r.Code),
				fmt.Sprintf(intFmt, r.Changes),
				fmtFloat(r.ChangesScore),
				fmtFloat(r.ComplexityScore),
				fmtFloat(r.Score),
				contract.GetPlainLabel(schema.ScoreSeverity(r.Score)),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeHotSpotsJSON writes hot-spot rows in JSON format with rank and label
// added per row.
func writeHotSpotsJSON(w io.Writer, rows []schema.HotSpotRow) error {
	type jsonHotSpotRow struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.HotSpotRow
	}

	output := make([]jsonHotSpotRow, len(rows))
	for i, r := range rows {
		output[i] = jsonHotSpotRow{
			Rank:       i + 1,
			Label:      contract.GetPlainLabel(schema.ScoreSeverity(r.Score)),
			HotSpotRow: r,
		}
	}
	return writeJSON(w, output)
}

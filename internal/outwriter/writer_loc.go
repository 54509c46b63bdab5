package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeLocRows outputs per-file line counts, dispatching based on the output
// format configured.
func writeLocRows(rows []schema.LocEntry, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeLocCSV(w, rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg, rows, "Wrote Parquet")
	case schema.ChartOut:
		return errNoChart("loc")
	default:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeLocTable(rows, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeLocTable generates and writes the human-readable table.
func writeLocTable(rows []schema.LocEntry, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Path", "Language", "Blank", "Comment", "Code"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// Rank + Language + three count columns
	pathWidth := maxTablePathWidth(cfg, 45)

	var data [][]string
	for i, r := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Path, pathWidth),
			r.Language,
			strconv.Itoa(r.Blank),
			strconv.Itoa(r.Comment),
			strconv.Itoa(r.Code),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalCode := 0
	for _, r := range rows {
		totalCode += r.Code
	}
	if _, err := fmt.Fprintf(writer, "Total code lines shown: %d\n", totalCode); err != nil {
		return err
	}
	return writeReportFooter(writer, cfg, len(rows), "files", duration)
}

// writeLocCSV writes line count rows in CSV format.
func writeLocCSV(w io.Writer, rows []schema.LocEntry) error {
	header := []string{"language", "path", "blank", "comment", "code"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				r.Language,
				r.Path,
				strconv.Itoa(r.Blank),
				strconv.Itoa(r.Comment),
				strconv.Itoa(r.Code),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

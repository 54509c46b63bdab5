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

// writeComponentRows outputs component assignments, dispatching based on the
// output format configured.
func writeComponentRows(rows []schema.ComponentRow, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeComponentsCSV(w, rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg, rows, "Wrote Parquet")
	case schema.ChartOut:
		return errNoChart("components")
	default:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeComponentsTable(rows, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeComponentsTable generates and writes the human-readable table.
func writeComponentsTable(rows []schema.ComponentRow, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Path", "Component"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// Rank + component name
	pathWidth := maxTablePathWidth(cfg, 35)

	var data [][]string
	for i, r := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Path, pathWidth),
			r.Component,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	components := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		components[r.Component] = struct{}{}
	}
	if _, err := fmt.Fprintf(writer, "%d paths across %d components\n", len(rows), len(components)); err != nil {
		return err
	}
	return writeReportFooter(writer, cfg, len(rows), "paths", duration)
}

// writeComponentsCSV writes component assignments in CSV format.
func writeComponentsCSV(w io.Writer, rows []schema.ComponentRow) error {
	header := []string{"path", "component"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{r.Path, r.Component}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

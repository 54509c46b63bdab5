package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/vega"
	"github.com/quantifio/codemetrics/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeAgeRows outputs file ages, dispatching based on the output format
// configured.
func writeAgeRows(rows []schema.AgeRow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeAgesCSV(w, rows, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg, rows, "Wrote Parquet")
	case schema.ChartOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, vega.AgesSpec(rows))
		}, "Wrote chart spec")
	default:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeAgesTable(rows, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeAgesTable generates and writes the human-readable table.
func writeAgesTable(rows []schema.AgeRow, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Path", "Last Change", "Age (Days)"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// Rank + date + age columns
	pathWidth := maxTablePathWidth(cfg, 35)

	var data [][]string
	for i, r := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Path, pathWidth),
			r.LastChange.Format(contract.DateOnlyFormat),
			fmtFloat(r.AgeDays),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeReportFooter(writer, cfg, len(rows), "files", duration)
}

// writeAgesCSV writes age rows in CSV format.
func writeAgesCSV(w io.Writer, rows []schema.AgeRow, fmtFloat func(float64) string) error {
	header := []string{"path", "last_change", "age_days"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				r.Path,
				r.LastChange.Format(contract.DateTimeFormat),
				fmtFloat(r.AgeDays),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

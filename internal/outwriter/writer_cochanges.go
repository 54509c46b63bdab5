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

// writeCoChangeRows outputs coupling pairs, dispatching based on the output
// format configured.
func writeCoChangeRows(rows []schema.CoChangeRow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeCoChangesJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeCoChangesCSV(w, rows, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg, rows, "Wrote Parquet")
	case schema.ChartOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, vega.CoChangesSpec(rows))
		}, "Wrote chart spec")
	default:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeCoChangesTable(rows, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// writeCoChangesTable generates and writes the human-readable table.
func writeCoChangesTable(rows []schema.CoChangeRow, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Primary", "Secondary", "Changes", "CoChanges", "Coupling", "Label"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// Two path columns share the terminal, so each gets half the room.
	pathWidth := maxTablePathWidth(cfg, 45) / 2
	if pathWidth < minPathWidth {
		pathWidth = minPathWidth
	}

	var data [][]string
	for i, r := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Primary, pathWidth),
			contract.TruncatePath(r.Secondary, pathWidth),
			fmt.Sprintf(intFmt, r.Changes),
			fmt.Sprintf(intFmt, r.CoChanges),
			fmtFloat(r.Coupling),
			severityLabel(cfg, schema.CouplingSeverity(r.Coupling)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeReportFooter(writer, cfg, len(rows), "pairs", duration)
}

// writeCoChangesCSV writes coupling pairs in CSV format.
func writeCoChangesCSV(w io.Writer, rows []schema.CoChangeRow, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"rank", "primary", "secondary", "changes", "cochanges", "coupling", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range rows {
			rec := []string{
				strconv.Itoa(i + 1),
				r.Primary,
				r.Secondary,
				fmt.Sprintf(intFmt, r.Changes),
				fmt.Sprintf(intFmt, r.CoChanges),
				fmtFloat(r.Coupling),
				contract.GetPlainLabel(schema.CouplingSeverity(r.Coupling)),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCoChangesJSON writes coupling pairs in JSON format with rank and
// label added per row.
func writeCoChangesJSON(w io.Writer, rows []schema.CoChangeRow) error {
	type jsonCoChangeRow struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.CoChangeRow
	}

	output := make([]jsonCoChangeRow, len(rows))
	for i, r := range rows {
		output[i] = jsonCoChangeRow{
			Rank:        i + 1,
			Label:       contract.GetPlainLabel(schema.CouplingSeverity(r.Coupling)),
			CoChangeRow: r,
		}
	}
	return writeJSON(w, output)
}

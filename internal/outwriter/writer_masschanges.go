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

// massChangeMessageWidth bounds the commit message column in table output.
const massChangeMessageWidth = 50

// writeMassChangeRows outputs mass-change revisions, dispatching based on
// the output format configured.
func writeMassChangeRows(rows []schema.MassChangeRow, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeMassChangesCSV(w, rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg, rows, "Wrote Parquet")
	case schema.ChartOut:
		return errNoChart("masschanges")
	default:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeMassChangesTable(rows, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeMassChangesTable generates and writes the human-readable table.
func writeMassChangesTable(rows []schema.MassChangeRow, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Revision", "Files", "Author", "Message"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Revision,
			strconv.Itoa(r.PathCount),
			schema.AbbreviateAuthor(r.Author),
			schema.TruncateMessage(r.Message, massChangeMessageWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalPaths := 0
	for _, r := range rows {
		totalPaths += r.PathCount
	}
	if _, err := fmt.Fprintf(writer, "%d revisions touched %d files in total\n", len(rows), totalPaths); err != nil {
		return err
	}
	return writeReportFooter(writer, cfg, len(rows), "revisions", duration)
}

// writeMassChangesCSV writes mass-change rows in CSV format.
func writeMassChangesCSV(w io.Writer, rows []schema.MassChangeRow) error {
	header := []string{"revision", "path_count", "author", "message"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				r.Revision,
				strconv.Itoa(r.PathCount),
				r.Author,
				r.Message,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

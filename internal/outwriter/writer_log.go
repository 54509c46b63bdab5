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

// logMessageWidth bounds the commit message column in table output.
const logMessageWidth = 40

// writeLogRows outputs parsed change log entries, dispatching based on the
// output format configured.
func writeLogRows(rows []schema.LogEntry, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeLogCSV(w, rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg, rows, "Wrote Parquet")
	case schema.ChartOut:
		return errNoChart("log")
	default:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeLogTable(rows, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeLogTable generates and writes the human-readable table.
func writeLogTable(rows []schema.LogEntry, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rev", "Date", "Author", "Path", "Added", "Removed", "Message"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	// Rev + Date + Author + count columns
	pathWidth := maxTablePathWidth(cfg, 55)

	var data [][]string
	for _, e := range rows {
		data = append(data, []string{
			e.Revision,
			e.Date.Format(contract.DateOnlyFormat),
			schema.AbbreviateAuthor(e.Author),
			contract.TruncatePath(e.Path, pathWidth),
			formatNullableCount(e.Added),
			formatNullableCount(e.Removed),
			schema.TruncateMessage(e.Message, logMessageWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	revisions := make(map[string]struct{}, len(rows))
	for _, e := range rows {
		revisions[e.Revision] = struct{}{}
	}
	if _, err := fmt.Fprintf(writer, "%d entries across %d revisions\n", len(rows), len(revisions)); err != nil {
		return err
	}
	return writeReportFooter(writer, cfg, len(rows), "entries", duration)
}

// writeLogCSV writes change log entries in CSV format.
func writeLogCSV(w io.Writer, rows []schema.LogEntry) error {
	header := []string{
		"revision", "author", "date", "textmods", "kind", "action",
		"propmods", "path", "message", "added", "removed",
		"copyfromrev", "copyfrompath",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range rows {
			rec := []string{
				e.Revision,
				e.Author,
				e.Date.Format(contract.DateTimeFormat),
				strconv.FormatBool(e.TextMods),
				e.Kind,
				e.Action,
				strconv.FormatBool(e.PropMods),
				e.Path,
				e.Message,
				formatNullableCount(e.Added),
				formatNullableCount(e.Removed),
				e.CopyFromRev,
				e.CopyFromPath,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

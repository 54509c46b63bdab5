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

// writeComplexityRows outputs per-function complexity, dispatching based on
// the output format configured.
func writeComplexityRows(rows []schema.FunctionComplexity, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeComplexityCSV(w, rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg, rows, "Wrote Parquet")
	case schema.ChartOut:
		return errNoChart("complexity")
	default:
		return writeWithFile(cfg, func(w io.Writer) error {
			return writeComplexityTable(rows, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeComplexityTable generates and writes the human-readable table.
func writeComplexityTable(rows []schema.FunctionComplexity, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Function", "CCN", "NLOC", "Tokens", "Params", "Start"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Name,
			strconv.Itoa(r.CyclomaticComplexity),
			strconv.Itoa(r.NLOC),
			strconv.Itoa(r.TokenCount),
			strconv.Itoa(r.ParamCount),
			strconv.Itoa(r.StartLine),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// lizard's CSV has no file-level record, so the footer sums the rows.
	totalNLOC := 0
	totalTokens := 0
	for _, r := range rows {
		totalNLOC += r.NLOC
		totalTokens += r.TokenCount
	}
	if len(rows) > 0 {
		if _, err := fmt.Fprintf(writer, "%s @ %s: %d functions, %d NLOC, %d tokens\n",
			rows[0].Path, rows[0].Revision, len(rows), totalNLOC, totalTokens); err != nil {
			return err
		}
	}
	return writeReportFooter(writer, cfg, len(rows), "functions", duration)
}

// writeComplexityCSV writes per-function complexity rows in CSV format.
func writeComplexityCSV(w io.Writer, rows []schema.FunctionComplexity) error {
	header := []string{
		"path", "revision", "name", "long_name", "cyclomatic_complexity",
		"nloc", "token_count", "param_count", "length", "start_line", "end_line",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				r.Path,
				r.Revision,
				r.Name,
				r.LongName,
				strconv.Itoa(r.CyclomaticComplexity),
				strconv.Itoa(r.NLOC),
				strconv.Itoa(r.TokenCount),
				strconv.Itoa(r.ParamCount),
				strconv.Itoa(r.Length),
				strconv.Itoa(r.StartLine),
				strconv.Itoa(r.EndLine),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

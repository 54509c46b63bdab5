package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/parquet"
	"github.com/quantifio/codemetrics/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(cfg *contract.Config, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		noteFileWritten(cfg, successMsg)
	}
	return nil
}

// noteFileWritten tells the user on stderr where the payload went. Stderr so
// it never mixes with structured stdout.
func noteFileWritten(cfg *contract.Config, successMsg string) {
	if cfg.UseEmojis {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, cfg.OutputFile)
	} else {
		fmt.Fprintf(os.Stderr, "%s to %s\n", successMsg, cfg.OutputFile)
	}
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// writeParquetFile writes rows to the configured output file in Parquet
// format. Parquet is a binary format, so stdout is never an option.
func writeParquetFile[T any](cfg *contract.Config, rows []T, successMsg string) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	if err := parquet.WriteRows(rows, cfg.OutputFile); err != nil {
		return err
	}
	noteFileWritten(cfg, successMsg)
	return nil
}

// errNoChart reports that a report has no chart rendition.
func errNoChart(report string) error {
	return fmt.Errorf("chart output is not available for the %s report", report)
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// formatNullableCount renders a nullable line count the way git numstat
// does: "-" when the tool reported no number.
func formatNullableCount(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// severityLabel returns the display label for a severity, colored when the
// configuration allows it.
func severityLabel(cfg *contract.Config, sev schema.Severity) string {
	if cfg.UseColors {
		return contract.GetColorLabel(sev)
	}
	return contract.GetPlainLabel(sev)
}

// writeReportFooter prints the shared closing line below text tables.
func writeReportFooter(w io.Writer, cfg *contract.Config, shown int, noun string, duration time.Duration) error {
	_, err := fmt.Fprintf(w, "Showing %d %s. Completed in %v. Cache backend: %s\n", shown, noun, duration, cfg.CacheBackend)
	return err
}

// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteLog prints parsed change log entries using the configured output format.
func (ow *OutWriter) WriteLog(rows []schema.LogEntry, cfg *contract.Config, duration time.Duration) error {
	return writeLogRows(rows, cfg, duration)
}

// WriteLoc prints per-file line counts using the configured output format.
func (ow *OutWriter) WriteLoc(rows []schema.LocEntry, cfg *contract.Config, duration time.Duration) error {
	return writeLocRows(rows, cfg, duration)
}

// WriteAges prints file ages using the configured output format.
func (ow *OutWriter) WriteAges(rows []schema.AgeRow, cfg *contract.Config, duration time.Duration) error {
	return writeAgeRows(rows, cfg, duration)
}

// WriteHotSpots prints ranked hot spots using the configured output format.
func (ow *OutWriter) WriteHotSpots(rows []schema.HotSpotRow, cfg *contract.Config, duration time.Duration) error {
	return writeHotSpotRows(rows, cfg, duration)
}

// WriteCoChanges prints coupling pairs using the configured output format.
func (ow *OutWriter) WriteCoChanges(rows []schema.CoChangeRow, cfg *contract.Config, duration time.Duration) error {
	return writeCoChangeRows(rows, cfg, duration)
}

// WriteMassChanges prints mass-change revisions using the configured output format.
func (ow *OutWriter) WriteMassChanges(rows []schema.MassChangeRow, cfg *contract.Config, duration time.Duration) error {
	return writeMassChangeRows(rows, cfg, duration)
}

// WriteComplexity prints per-function complexity rows using the configured output format.
func (ow *OutWriter) WriteComplexity(rows []schema.FunctionComplexity, cfg *contract.Config, duration time.Duration) error {
	return writeComplexityRows(rows, cfg, duration)
}

// WriteComponents prints component assignments using the configured output format.
func (ow *OutWriter) WriteComponents(rows []schema.ComponentRow, cfg *contract.Config, duration time.Duration) error {
	return writeComponentRows(rows, cfg, duration)
}

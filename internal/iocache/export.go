package iocache

import (
	"errors"
	"fmt"

	"github.com/quantifio/codemetrics/internal/parquet"
)

// ExecuteRunsExport exports the recorded runs and their hot-spot rows to
// Parquet files next to outputFile.
func ExecuteRunsExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the runs store
	store := Manager.GetRunsStore()
	if store == nil {
		return errors.New("run tracking is disabled; enable a runs backend to export")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get runs status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total hot-spot records: %d\n", status.TableSizes[runHotSpotsTable])

	// Retrieve all runs
	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	// Retrieve all hot-spot rows
	hotSpots, err := store.GetAllHotSpotRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve hot-spot records: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetHotSpots := parquet.ConvertHotSpotRecords(hotSpots)

	// Write runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	// Write hot-spot records to Parquet
	hotSpotsFile := outputFile + ".run_hotspots.parquet"
	if err := parquet.WriteRunHotSpotsParquet(parquetHotSpots, hotSpotsFile); err != nil {
		return fmt.Errorf("failed to write hot-spot records: %w", err)
	}
	fmt.Printf("Exported %d hot-spot records to: %s\n", len(parquetHotSpots), hotSpotsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}

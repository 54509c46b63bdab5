package contract

import (
	"github.com/quantifio/codemetrics/schema"
)

// StoreManager defines the interface for managing persistence stores.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetCacheStore() CacheStore
	GetRunsStore() RunsStore
}

// CacheStore defines the interface for invocation cache storage.
// Values are opaque payloads keyed by invocation fingerprint; version and
// timestamp support staleness checks on read.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunsStore defines the interface for recording report executions.
type RunsStore interface {
	// BeginRun creates a new run record and returns its unique ID.
	BeginRun(rec schema.RunRecord) (int64, error)

	// EndRun updates the run with completion data.
	EndRun(runID int64, rowCount int, durationMS int64, status string) error

	// RecordHotSpots stores the ranked hot-spot rows for a run.
	RecordHotSpots(runID int64, rows []schema.HotSpotRow) error

	// GetAllRuns retrieves every run record, oldest first.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllHotSpotRecords retrieves every persisted hot-spot row, grouped
	// by run.
	GetAllHotSpotRecords() ([]schema.HotSpotRecord, error)

	// GetStatus returns status information about the runs store.
	GetStatus() (schema.RunsStatus, error)

	// Close closes the underlying connection.
	Close() error
}

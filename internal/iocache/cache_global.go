package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/schema"
)

// cacheTable is the name of the table for invocation caching.
const cacheTable = "codemetrics_cache"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetCacheBoltFilePath returns the path to the Bolt DB file for cache storage.
func GetCacheBoltFilePath() string {
	return contract.GetCacheBoltFilePath()
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunsDBFilePath() string {
	return contract.GetRunsDBFilePath()
}

// InitStores initializes the global store manager with separate cache and
// runs stores. An empty backend disables the corresponding store.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, runsBackend schema.DatabaseBackend, runsConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		var err error

		// Initialize the invocation cache store only if a backend is configured
		var cacheStore contract.CacheStore
		if cacheBackend != "" {
			cacheStore, err = NewCacheStore(cacheTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize invocation caching: %w", err)
				return
			}
		}

		// Initialize the runs store only if a backend is configured
		var runsStore contract.RunsStore
		if runsBackend != "" {
			runsStore, err = NewRunsStore(runsBackend, runsConnStr)
			if err != nil {
				if cacheStore != nil {
					_ = cacheStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize run tracking: %w", err)
				return
			}
		}

		// Assign to global manager
		Manager.cache = cacheStore
		Manager.runs = runsStore
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.cache != nil {
			_ = Manager.cache.Close()
		}
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearCache clears the invocation cache for the specified backend.
// For the file-backed backends (SQLite, Bolt) it deletes the database file.
// For SQL servers (MySQL/PostgreSQL) it drops the table.
// For NoneBackend it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.BoltBackend:
		return removeDBFile(dbFilePath)

	case schema.MySQLBackend:
		return clearSQLTables("mysql", connStr, cacheTable)

	case schema.PostgreSQLBackend:
		return clearSQLTables("pgx", connStr, cacheTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearRuns clears the run history for the specified backend.
// For SQLite it deletes the database file.
// For SQL servers (MySQL/PostgreSQL) it drops the run tracking tables.
// For NoneBackend it does nothing.
func ClearRuns(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeDBFile(dbFilePath)

	case schema.MySQLBackend:
		return clearSQLTables("mysql", connStr, runHotSpotsTable, runsTable)

	case schema.PostgreSQLBackend:
		return clearSQLTables("pgx", connStr, runHotSpotsTable, runsTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported runs backend for clearing: %s", backend)
	}
}

// removeDBFile deletes a database file, ignoring a file that is already gone.
func removeDBFile(dbFilePath string) error {
	if dbFilePath == "" {
		return fmt.Errorf("dbFilePath cannot be empty for a file-backed backend")
	}
	if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove database file %s: %w", dbFilePath, err)
	}
	return nil
}

// clearSQLTables connects to the SQL database and drops the tables if they
// exist.
func clearSQLTables(driverName, connStr string, tableNames ...string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, tableName := range tableNames {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tableName, err)
		}
	}

	return nil
}

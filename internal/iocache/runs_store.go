package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/schema"
)

// Table names for run tracking.
const (
	runsTable        = "codemetrics_runs"
	runHotSpotsTable = "codemetrics_run_hotspots"
)

// RunsStoreImpl implements the RunsStore interface.
type RunsStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.RunsStore = &RunsStoreImpl{} // Compile-time check

// NewRunsStore creates a new RunsStore with the specified backend.
func NewRunsStore(backend schema.DatabaseBackend, connStr string) (contract.RunsStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetRunsDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &RunsStoreImpl{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported runs backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Check that the server is running and the connection string is correct", backend, err)
	}

	// Create the table schemas
	if err := createRunsTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tracking tables: %w", err)
	}

	return &RunsStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createRunsTables creates the run tracking tables.
func createRunsTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{runHotSpotsTable, getCreateRunHotSpotsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for codemetrics_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				command VARCHAR(64) NOT NULL,
				repo_path VARCHAR(512) NOT NULL,
				scm VARCHAR(16) NOT NULL,
				window_start DATETIME(6),
				window_end DATETIME(6),
				row_count INT NOT NULL,
				duration_ms BIGINT NOT NULL,
				status VARCHAR(16) NOT NULL,
				version VARCHAR(64) NOT NULL,
				created_at DATETIME(6) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				command TEXT NOT NULL,
				repo_path TEXT NOT NULL,
				scm TEXT NOT NULL,
				window_start TIMESTAMPTZ,
				window_end TIMESTAMPTZ,
				row_count INT NOT NULL,
				duration_ms BIGINT NOT NULL,
				status TEXT NOT NULL,
				version TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				command TEXT NOT NULL,
				repo_path TEXT NOT NULL,
				scm TEXT NOT NULL,
				window_start TEXT,
				window_end TEXT,
				row_count INTEGER NOT NULL,
				duration_ms INTEGER NOT NULL,
				status TEXT NOT NULL,
				version TEXT NOT NULL,
				created_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateRunHotSpotsQuery returns the CREATE TABLE query for codemetrics_run_hotspots.
func getCreateRunHotSpotsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runHotSpotsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				file_path VARCHAR(512) NOT NULL,
				language VARCHAR(100),
				code INT NOT NULL,
				changes INT NOT NULL,
				changes_score DOUBLE NOT NULL,
				complexity_score DOUBLE NOT NULL,
				score DOUBLE NOT NULL,
				created_at DATETIME(6) NOT NULL,
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				file_path TEXT NOT NULL,
				language TEXT,
				code INT NOT NULL,
				changes INT NOT NULL,
				changes_score DOUBLE PRECISION NOT NULL,
				complexity_score DOUBLE PRECISION NOT NULL,
				score DOUBLE PRECISION NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				file_path TEXT NOT NULL,
				language TEXT,
				code INTEGER NOT NULL,
				changes INTEGER NOT NULL,
				changes_score REAL NOT NULL,
				complexity_score REAL NOT NULL,
				score REAL NOT NULL,
				created_at TEXT NOT NULL,
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run record and returns its unique ID.
func (rs *RunsStoreImpl) BeginRun(rec schema.RunRecord) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	createdAt := time.Now().UTC()

	var runID int64
	var err error
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (command, repo_path, scm, window_start, window_end, row_count, duration_ms, status, version, created_at)
			VALUES ($1, $2, $3, $4, $5, 0, 0, $6, $7, $8) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query,
			rec.Command, rec.RepoPath, rec.SCM,
			nullableTime(rec.WindowStart, rs.backend), nullableTime(rec.WindowEnd, rs.backend),
			schema.RunStatusStarted, rec.Version, createdAt,
		).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (command, repo_path, scm, window_start, window_end, row_count, duration_ms, status, version, created_at)
			VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query,
			rec.Command, rec.RepoPath, rec.SCM,
			nullableTime(rec.WindowStart, rs.backend), nullableTime(rec.WindowEnd, rs.backend),
			schema.RunStatusStarted, rec.Version, formatTime(createdAt, rs.backend),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run record: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run record: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunsStoreImpl) EndRun(runID int64, rowCount int, durationMS int64, status string) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET row_count = $1, duration_ms = $2, status = $3 WHERE run_id = $4`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET row_count = ?, duration_ms = ?, status = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := rs.db.Exec(query, rowCount, durationMS, status, runID); err != nil {
		return fmt.Errorf("failed to update run record: %w", err)
	}
	return nil
}

// RecordHotSpots stores the ranked hot-spot rows for a run in one transaction.
func (rs *RunsStoreImpl) RecordHotSpots(runID int64, rows []schema.HotSpotRow) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}
	if len(rows) == 0 {
		return nil
	}

	quotedTableName := quoteTableName(runHotSpotsTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (run_id, file_path, language, code, changes, changes_score, complexity_score, score, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (run_id, file_path, language, code, changes, changes_score, complexity_score, score, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName)
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin hot-spot insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := formatTime(time.Now().UTC(), rs.backend)
	for _, row := range rows {
		if _, err := tx.Exec(query,
			runID, row.Path, row.Language, row.Code, row.Changes,
			row.ChangesScore, row.ComplexityScore, row.Score, createdAt,
		); err != nil {
			return fmt.Errorf("failed to insert hot-spot row for %s: %w", row.Path, err)
		}
	}

	return tx.Commit()
}

// GetAllRuns retrieves all run records from the store, oldest first.
func (rs *RunsStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, command, repo_path, scm, window_start, window_end, row_count, duration_ms, status, version, created_at
		FROM %s ORDER BY run_id`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query run records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord

	for rows.Next() {
		var record schema.RunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var windowStart, windowEnd sql.NullString
			var createdAt string
			if err := rows.Scan(&record.ID, &record.Command, &record.RepoPath, &record.SCM,
				&windowStart, &windowEnd, &record.RowCount, &record.DurationMS,
				&record.Status, &record.Version, &createdAt); err != nil {
				return nil, fmt.Errorf("failed to scan run record: %w", err)
			}
			if record.WindowStart, err = parseNullableTime(windowStart); err != nil {
				return nil, fmt.Errorf("failed to parse window_start: %w", err)
			}
			if record.WindowEnd, err = parseNullableTime(windowEnd); err != nil {
				return nil, fmt.Errorf("failed to parse window_end: %w", err)
			}
			if record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
				return nil, fmt.Errorf("failed to parse created_at: %w", err)
			}
		default: // MySQL and PostgreSQL store native datetimes
			var windowStart, windowEnd sql.NullTime
			if err := rows.Scan(&record.ID, &record.Command, &record.RepoPath, &record.SCM,
				&windowStart, &windowEnd, &record.RowCount, &record.DurationMS,
				&record.Status, &record.Version, &record.CreatedAt); err != nil {
				return nil, fmt.Errorf("failed to scan run record: %w", err)
			}
			record.WindowStart = windowStart.Time
			record.WindowEnd = windowEnd.Time
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run records: %w", err)
	}

	return results, nil
}

// GetAllHotSpotRecords retrieves all persisted hot-spot rows, grouped by run.
func (rs *RunsStoreImpl) GetAllHotSpotRecords() ([]schema.HotSpotRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runHotSpotsTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, file_path, language, code, changes, changes_score, complexity_score, score, created_at
		FROM %s ORDER BY run_id, score DESC, file_path`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query hot-spot records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HotSpotRecord

	for rows.Next() {
		var record schema.HotSpotRecord
		var language sql.NullString

		switch rs.backend {
		case schema.SQLiteBackend:
			var createdAt string
			if err := rows.Scan(&record.RunID, &record.Path, &language, &record.Code, &record.Changes,
				&record.ChangesScore, &record.ComplexityScore, &record.Score, &createdAt); err != nil {
				return nil, fmt.Errorf("failed to scan hot-spot record: %w", err)
			}
			if record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
				return nil, fmt.Errorf("failed to parse created_at: %w", err)
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.Path, &language, &record.Code, &record.Changes,
				&record.ChangesScore, &record.ComplexityScore, &record.Score, &record.CreatedAt); err != nil {
				return nil, fmt.Errorf("failed to scan hot-spot record: %w", err)
			}
		}
		record.Language = language.String

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hot-spot records: %w", err)
	}

	return results, nil
}

// GetStatus returns status information about the runs store.
func (rs *RunsStoreImpl) GetStatus() (schema.RunsStatus, error) {
	status := schema.RunsStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	// Get total runs
	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, rs.backend))
	row := rs.db.QueryRow(runsQuery)
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		// Get last run info
		lastRunQuery := fmt.Sprintf("SELECT run_id, created_at FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, rs.backend))
		lastID, lastTime, err := rs.scanRunTime(rs.db.QueryRow(lastRunQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunID = lastID
		status.LastRunTime = lastTime

		// Get oldest run info
		oldestRunQuery := fmt.Sprintf("SELECT run_id, created_at FROM %s ORDER BY run_id ASC LIMIT 1", quoteTableName(runsTable, rs.backend))
		_, oldestTime, err := rs.scanRunTime(rs.db.QueryRow(oldestRunQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run info: %w", err)
		}
		status.OldestRunTime = oldestTime

		// Get total reported rows across runs
		rowsQuery := fmt.Sprintf("SELECT COALESCE(SUM(row_count), 0) FROM %s", quoteTableName(runsTable, rs.backend))
		row = rs.db.QueryRow(rowsQuery)
		if err := row.Scan(&status.TotalRows); err != nil {
			return status, fmt.Errorf("failed to get total rows: %w", err)
		}
	}

	// Get table sizes
	tables := []string{runsTable, runHotSpotsTable}
	for _, table := range tables {
		quotedTable := quoteTableName(table, rs.backend)
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTable)
		row = rs.db.QueryRow(countQuery)
		var count int64
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// scanRunTime reads a (run_id, created_at) row, handling the time storage
// format of each backend.
func (rs *RunsStoreImpl) scanRunTime(row *sql.Row) (int64, time.Time, error) {
	var id int64

	if rs.backend == schema.SQLiteBackend {
		var createdAt string
		if err := row.Scan(&id, &createdAt); err != nil {
			return 0, time.Time{}, err
		}
		t, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return 0, time.Time{}, fmt.Errorf("failed to parse created_at: %w", err)
		}
		return id, t, nil
	}

	var t time.Time
	if err := row.Scan(&id, &t); err != nil {
		return 0, time.Time{}, err
	}
	return id, t, nil
}

// Close closes the underlying connection.
func (rs *RunsStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate representation for the
// backend. SQLite has no native datetime type, so times are stored as
// RFC 3339 strings.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.Format(time.RFC3339Nano)
	}
	return t
}

// nullableTime is formatTime with the zero time mapped to NULL. An unbounded
// analysis window has no boundary to store, and MySQL rejects year-one
// datetimes outright.
func nullableTime(t time.Time, backend schema.DatabaseBackend) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t, backend)
}

// parseNullableTime converts a nullable RFC 3339 column back to a time,
// mapping NULL to the zero time.
func parseNullableTime(s sql.NullString) (time.Time, error) {
	if !s.Valid {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s.String)
}

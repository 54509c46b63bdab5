package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// SCMKind represents the version control tool backing a repository.
	SCMKind string

	// JoinPolicy represents how the hot-spot join treats paths present in
	// only one of the two input tables.
	JoinPolicy string

	// DatabaseBackend represents the database backend for a store.
	DatabaseBackend string

	// Severity classifies a metric value for display purposes.
	Severity string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	ChartOut   OutputMode = "chart" // Vega-Lite spec document
)

// All version control tools supported.
const (
	GitSCM SCMKind = "git" // default
	SvnSCM SCMKind = "svn"
)

// All join policies supported.
const (
	OuterJoin JoinPolicy = "outer" // default: keep unmatched paths, zero-fill
	InnerJoin JoinPolicy = "inner" // drop paths present in only one table
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	BoltBackend       DatabaseBackend = "bolt" // embedded key/value, cache only
	NoneBackend       DatabaseBackend = "none"
)

// All severities supported, from most to least urgent.
const (
	CriticalSeverity Severity = "critical"
	HighSeverity     Severity = "high"
	ModerateSeverity Severity = "moderate"
	LowSeverity      Severity = "low"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
	ChartOut:   {},
}

// ValidSCMKinds lists all valid version control tools.
var ValidSCMKinds = map[SCMKind]struct{}{
	GitSCM: {},
	SvnSCM: {},
}

// ValidJoinPolicies lists all valid join policies.
var ValidJoinPolicies = map[JoinPolicy]struct{}{
	OuterJoin: {},
	InnerJoin: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	BoltBackend:       {},
	NoneBackend:       {},
}

// ValidRunsBackends lists all valid run-record backends. Bolt is excluded
// because run records are relational and managed by SQL migrations.
var ValidRunsBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// CouplingSeverity classifies a coupling ratio in [0, 1].
func CouplingSeverity(coupling float64) Severity {
	switch {
	case coupling >= 0.8:
		return CriticalSeverity
	case coupling >= 0.5:
		return HighSeverity
	case coupling >= 0.2:
		return ModerateSeverity
	default:
		return LowSeverity
	}
}

// ScoreSeverity classifies a hot-spot score in [0, 2].
func ScoreSeverity(score float64) Severity {
	switch {
	case score >= 1.5:
		return CriticalSeverity
	case score >= 1.0:
		return HighSeverity
	case score >= 0.5:
		return ModerateSeverity
	default:
		return LowSeverity
	}
}

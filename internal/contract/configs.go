package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantifio/codemetrics/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 10000
	DefaultPrecision   = 2
	MaxPrecision       = 6
	DefaultMinChanges  = 10
	DefaultClusters    = 8
	DefaultMaxScore    = 1.5
	DefaultMaxCoupling = 0.8
)

// Config holds the runtime configuration for an analysis.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath   string
	PathFilter string
	SCM        schema.SCMKind
	After      time.Time
	Before     time.Time

	ResultLimit int // 0 means unlimited
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Excludes    []string
	Join        schema.JoinPolicy

	MinChanges      int
	MinCoupling     float64
	GroupComponents bool
	Clusters        int
	StopWords       []string

	Revision string

	MaxScore    float64
	MaxCoupling float64

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	RunsBackend    schema.DatabaseBackend
	RunsDBConnect  string // Please use env var as this is plaintext

	ClocBin   string
	LizardBin string

	UseEmojis bool // Enable emoji markers in progress output
	UseColors bool // Enable colored labels in table output
	Width     int  // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Scm            string `mapstructure:"scm"`
	After          string `mapstructure:"after"`
	Before         string `mapstructure:"before"`
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Exclude        string `mapstructure:"exclude"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`
	ClocBin        string `mapstructure:"cloc-bin"`
	LizardBin      string `mapstructure:"lizard-bin"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`
	Width          int    `mapstructure:"width"`

	// --- Fields from hotspotsCmd.Flags() ---
	Join string `mapstructure:"join"`

	// --- Fields from cochangesCmd.Flags() ---
	MinCoupling     float64 `mapstructure:"min-coupling"`
	GroupComponents bool    `mapstructure:"group-components"`

	// --- Fields from masschangesCmd.Flags() ---
	MinChanges int `mapstructure:"min-changes"`

	// --- Fields from componentsCmd.Flags() ---
	Clusters  int    `mapstructure:"clusters"`
	StopWords string `mapstructure:"stop-words"`

	// --- Fields from complexityCmd.Flags() ---
	Rev string `mapstructure:"rev"`

	// --- Fields from checkCmd.Flags() ---
	MaxScore    float64 `mapstructure:"max-score"`
	MaxCoupling float64 `mapstructure:"max-coupling"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.StopWords != nil {
		clone.StopWords = make([]string, len(c.StopWords))
		copy(clone.StopWords, c.StopWords)
	}
	return &clone
}

// CloneWithTimeWindow creates a copy of the Config with a new time window.
func (c *Config) CloneWithTimeWindow(after, before time.Time) *Config {
	clone := c.Clone()
	clone.After = after
	clone.Before = before
	return clone
}

// NewSCMClient returns the local client for a validated SCM kind.
func NewSCMClient(kind schema.SCMKind) SCMClient {
	if kind == schema.SvnSCM {
		return NewLocalSvnClient()
	}
	return NewLocalGitClient()
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. Repository path resolution is
// separate (ResolveRepoPath) since it needs a live client.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeWindow(cfg, input); err != nil {
		return err
	}
	if err := processReportOptions(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ClocBin = input.ClocBin
	cfg.LizardBin = input.LizardBin
	cfg.Revision = strings.TrimSpace(input.Rev)
	if cfg.Revision == "" {
		cfg.Revision = "HEAD"
	}

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. SCM Validation ---
	cfg.SCM = schema.SCMKind(strings.ToLower(input.Scm))
	if _, ok := schema.ValidSCMKinds[cfg.SCM]; !ok {
		return fmt.Errorf("invalid scm '%s'. must be git or svn", input.Scm)
	}

	// --- 2. ResultLimit Validation ---
	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 (unlimited) and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, chart", cfg.Output)
	}

	// --- 4. Excludes Processing ---
	defaults := []string{
		"Cargo.lock", "go.sum", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "composer.lock", "uv.lock",
		".min.js", ".min.css",
		".jpg", ".jpeg", ".png", ".gif", ".ico", ".mp4", ".webm", ".mp3", ".pdf", ".webp",
	}
	cfg.Excludes = defaults // Set defaults first

	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}

	return nil
}

// processTimeWindow handles the date parsing and time window validation.
// Both boundaries default to zero, which means unbounded history.
func processTimeWindow(cfg *Config, input *ConfigRawInput) error {
	now := GetNow()

	if input.After != "" {
		t, err := ParseTimeInput(input.After, now)
		if err != nil {
			return fmt.Errorf("invalid --after: %w", err)
		}
		cfg.After = t
	}

	if input.Before != "" {
		t, err := ParseTimeInput(input.Before, now)
		if err != nil {
			return fmt.Errorf("invalid --before: %w", err)
		}
		cfg.Before = t
	}

	if !cfg.After.IsZero() && !cfg.Before.IsZero() && cfg.After.After(cfg.Before) {
		return fmt.Errorf("after time (%s) cannot be later than before time (%s)",
			cfg.After.Format(DateOnlyFormat), cfg.Before.Format(DateOnlyFormat))
	}

	return nil
}

// processReportOptions validates per-report tuning knobs.
func processReportOptions(cfg *Config, input *ConfigRawInput) error {
	// --- Hot-spot join policy ---
	cfg.Join = schema.JoinPolicy(strings.ToLower(input.Join))
	if cfg.Join == "" {
		cfg.Join = schema.OuterJoin
	}
	if _, ok := schema.ValidJoinPolicies[cfg.Join]; !ok {
		return fmt.Errorf("invalid join policy '%s'. must be outer or inner", input.Join)
	}

	// --- Co-change options ---
	if input.MinCoupling < 0 || input.MinCoupling > 1 {
		return fmt.Errorf("min-coupling must be between 0.0 and 1.0 (received %.2f)", input.MinCoupling)
	}
	cfg.MinCoupling = input.MinCoupling
	cfg.GroupComponents = input.GroupComponents

	// --- Mass change options ---
	if input.MinChanges < 2 {
		return fmt.Errorf("min-changes must be at least 2 (received %d)", input.MinChanges)
	}
	cfg.MinChanges = input.MinChanges

	// --- Component options ---
	if input.Clusters < 1 {
		return fmt.Errorf("clusters must be at least 1 (received %d)", input.Clusters)
	}
	cfg.Clusters = input.Clusters
	if input.StopWords != "" {
		for w := range strings.SplitSeq(input.StopWords, ",") {
			trimmed := strings.TrimSpace(w)
			if trimmed != "" {
				cfg.StopWords = append(cfg.StopWords, trimmed)
			}
		}
	}

	// --- Check thresholds ---
	if input.MaxScore <= 0 || input.MaxScore > 2 {
		return fmt.Errorf("max-score must be between 0.0 and 2.0 (received %.2f)", input.MaxScore)
	}
	cfg.MaxScore = input.MaxScore
	if input.MaxCoupling <= 0 || input.MaxCoupling > 1 {
		return fmt.Errorf("max-coupling must be between 0.0 and 1.0 (received %.2f)", input.MaxCoupling)
	}
	cfg.MaxCoupling = input.MaxCoupling

	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.BoltBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using the %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using the %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and runs backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, bolt, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Runs Backend Validation ---
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend == "" {
		cfg.RunsBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidRunsBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return err
	}

	// Cache and runs must not share a database
	if cfg.CacheBackend == cfg.RunsBackend && cfg.CacheBackend != schema.NoneBackend {
		if cfg.CacheBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			runsDBPath := cfg.RunsDBConnect
			if runsDBPath == "" {
				runsDBPath = GetRunsDBFilePath()
			}
			if cacheDBPath == runsDBPath {
				return fmt.Errorf("cache and runs storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		} else if cfg.CacheDBConnect == cfg.RunsDBConnect {
			return fmt.Errorf("cache and runs storage must use different databases")
		}
	}

	return nil
}

// ResolveRepoPath resolves the working copy root for the requested path and
// derives the implicit path filter when the user points below the root.
func ResolveRepoPath(ctx context.Context, cfg *Config, client SCMClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	contextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		contextPath = filepath.Dir(absSearchPath)
	}

	root, err := client.GetRepoRoot(ctx, contextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = root

	if absSearchPath != root {
		relativePath, err := filepath.Rel(root, absSearchPath)
		if err != nil {
			return err
		}
		if relativePath != "." {
			cfg.PathFilter = strings.ReplaceAll(relativePath, string(os.PathSeparator), "/")
		}
	}

	return nil
}

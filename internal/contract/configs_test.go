package contract

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantifio/codemetrics/schema"
)

// validInput returns a raw input populated with the same values the CLI
// defaults provide, so each test case only has to mutate the field under test.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		RepoPathStr:  ".",
		Scm:          "git",
		Limit:        DefaultResultLimit,
		Precision:    DefaultPrecision,
		Output:       "text",
		Join:         "outer",
		MinChanges:   DefaultMinChanges,
		MinCoupling:  0,
		Clusters:     DefaultClusters,
		Rev:          "HEAD",
		MaxScore:     DefaultMaxScore,
		MaxCoupling:  DefaultMaxCoupling,
		CacheBackend: string(schema.SQLiteBackend),
		RunsBackend:  string(schema.NoneBackend),
		Emoji:        "yes",
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
		check       func(*testing.T, *Config)
	}{
		{
			name:        "valid defaults",
			mutate:      func(in *ConfigRawInput) {},
			expectError: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.GitSCM, cfg.SCM)
				assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)
				assert.Equal(t, schema.TextOut, cfg.Output)
				assert.Equal(t, schema.OuterJoin, cfg.Join)
				assert.Equal(t, "HEAD", cfg.Revision)
				assert.True(t, cfg.After.IsZero(), "default window should be unbounded")
				assert.True(t, cfg.Before.IsZero(), "default window should be unbounded")
				assert.True(t, cfg.UseEmojis)
			},
		},
		{
			name:   "svn scm accepted",
			mutate: func(in *ConfigRawInput) { in.Scm = "SVN" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.SvnSCM, cfg.SCM)
			},
		},
		{
			name:        "invalid scm",
			mutate:      func(in *ConfigRawInput) { in.Scm = "hg" },
			expectError: true,
		},
		{
			name:   "limit zero means unlimited",
			mutate: func(in *ConfigRawInput) { in.Limit = 0 },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0, cfg.ResultLimit)
			},
		},
		{
			name:        "invalid limit (negative)",
			mutate:      func(in *ConfigRawInput) { in.Limit = -1 },
			expectError: true,
		},
		{
			name:        "invalid limit (too large)",
			mutate:      func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			expectError: true,
		},
		{
			name:        "invalid precision (zero)",
			mutate:      func(in *ConfigRawInput) { in.Precision = 0 },
			expectError: true,
		},
		{
			name:        "invalid precision (too high)",
			mutate:      func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 },
			expectError: true,
		},
		{
			name:        "invalid output format",
			mutate:      func(in *ConfigRawInput) { in.Output = "yaml" },
			expectError: true,
		},
		{
			name:   "parquet output accepted",
			mutate: func(in *ConfigRawInput) { in.Output = "parquet" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.ParquetOut, cfg.Output)
			},
		},
		{
			name:   "excludes appended to defaults",
			mutate: func(in *ConfigRawInput) { in.Exclude = "vendor/, *.gen.go" },
			check: func(t *testing.T, cfg *Config) {
				assert.Contains(t, cfg.Excludes, "vendor/")
				assert.Contains(t, cfg.Excludes, "*.gen.go")
				assert.Contains(t, cfg.Excludes, "go.sum", "built-in excludes should survive user additions")
			},
		},
		{
			name:   "explicit time window",
			mutate: func(in *ConfigRawInput) { in.After = "2024-01-01"; in.Before = "2024-06-30" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2024, cfg.After.Year())
				assert.Equal(t, time.June, cfg.Before.Month())
			},
		},
		{
			name:        "after later than before",
			mutate:      func(in *ConfigRawInput) { in.After = "2024-06-30"; in.Before = "2024-01-01" },
			expectError: true,
		},
		{
			name:        "garbage after value",
			mutate:      func(in *ConfigRawInput) { in.After = "last tuesday" },
			expectError: true,
		},
		{
			name:        "invalid join policy",
			mutate:      func(in *ConfigRawInput) { in.Join = "left" },
			expectError: true,
		},
		{
			name:        "invalid min-coupling",
			mutate:      func(in *ConfigRawInput) { in.MinCoupling = 1.5 },
			expectError: true,
		},
		{
			name:        "invalid min-changes",
			mutate:      func(in *ConfigRawInput) { in.MinChanges = 1 },
			expectError: true,
		},
		{
			name:        "invalid clusters",
			mutate:      func(in *ConfigRawInput) { in.Clusters = 0 },
			expectError: true,
		},
		{
			name:   "stop words split and trimmed",
			mutate: func(in *ConfigRawInput) { in.StopWords = "src, internal ,pkg" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"src", "internal", "pkg"}, cfg.StopWords)
			},
		},
		{
			name:        "invalid max-score (zero)",
			mutate:      func(in *ConfigRawInput) { in.MaxScore = 0 },
			expectError: true,
		},
		{
			name:        "invalid max-score (too high)",
			mutate:      func(in *ConfigRawInput) { in.MaxScore = 2.5 },
			expectError: true,
		},
		{
			name:        "invalid max-coupling",
			mutate:      func(in *ConfigRawInput) { in.MaxCoupling = 1.2 },
			expectError: true,
		},
		{
			name:        "invalid cache backend",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "redis" },
			expectError: true,
		},
		{
			name:   "bolt cache backend accepted",
			mutate: func(in *ConfigRawInput) { in.CacheBackend = string(schema.BoltBackend) },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.BoltBackend, cfg.CacheBackend)
			},
		},
		{
			name:        "bolt runs backend rejected",
			mutate:      func(in *ConfigRawInput) { in.RunsBackend = string(schema.BoltBackend) },
			expectError: true,
		},
		{
			name:        "mysql cache backend without connection string",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = string(schema.MySQLBackend) },
			expectError: true,
		},
		{
			name: "mysql cache backend with connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.MySQLBackend)
				in.CacheDBConnect = "user:pass@tcp(localhost:3306)/codemetrics"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.MySQLBackend, cfg.CacheBackend)
			},
		},
		{
			name:        "postgresql runs backend without connection string",
			mutate:      func(in *ConfigRawInput) { in.RunsBackend = string(schema.PostgreSQLBackend) },
			expectError: true,
		},
		{
			name: "cache and runs on the same mysql database",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.MySQLBackend)
				in.CacheDBConnect = "user:pass@tcp(localhost:3306)/shared"
				in.RunsBackend = string(schema.MySQLBackend)
				in.RunsDBConnect = "user:pass@tcp(localhost:3306)/shared"
			},
			expectError: true,
		},
		{
			name: "cache and runs on distinct mysql databases",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.MySQLBackend)
				in.CacheDBConnect = "user:pass@tcp(localhost:3306)/cm_cache"
				in.RunsBackend = string(schema.MySQLBackend)
				in.RunsDBConnect = "user:pass@tcp(localhost:3306)/cm_runs"
			},
			expectError: false,
		},
		{
			name: "sqlite cache and runs use separate default files",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.SQLiteBackend)
				in.RunsBackend = string(schema.SQLiteBackend)
			},
			expectError: false,
		},
		{
			name: "sqlite cache and runs pointed at the same file",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = string(schema.SQLiteBackend)
				in.CacheDBConnect = "/tmp/same.db"
				in.RunsBackend = string(schema.SQLiteBackend)
				in.RunsDBConnect = "/tmp/same.db"
			},
			expectError: true,
		},
		{
			name:        "invalid emoji flag",
			mutate:      func(in *ConfigRawInput) { in.Emoji = "maybe" },
			expectError: true,
		},
		{
			name:   "color disabled",
			mutate: func(in *ConfigRawInput) { in.Color = "no" },
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.UseColors)
			},
		},
		{
			name:   "empty rev falls back to HEAD",
			mutate: func(in *ConfigRawInput) { in.Rev = "" },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "HEAD", cfg.Revision)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)

			if tt.expectError {
				assert.Error(t, err, "contract.ProcessAndValidate should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "contract.ProcessAndValidate should not return an error for %s", tt.name)
				if tt.check != nil {
					tt.check(t, cfg)
				}
			}
		})
	}
}

func TestResolveRepoPath(t *testing.T) {
	ctx := context.Background()

	t.Run("path is the repo root", func(t *testing.T) {
		workDir, err := filepath.Abs(".")
		require.NoError(t, err)

		mockClient := new(MockSCMClient)
		mockClient.On("GetRepoRoot", ctx, workDir).Return(workDir, nil)

		cfg := &Config{}
		input := validInput()
		err = ResolveRepoPath(ctx, cfg, mockClient, input)

		assert.NoError(t, err)
		assert.Equal(t, workDir, cfg.RepoPath)
		assert.Empty(t, cfg.PathFilter, "pointing at the root should not set a filter")
		mockClient.AssertExpectations(t)
	})

	t.Run("path below the repo root sets a filter", func(t *testing.T) {
		workDir, err := filepath.Abs(".")
		require.NoError(t, err)
		parent := filepath.Dir(workDir)

		mockClient := new(MockSCMClient)
		mockClient.On("GetRepoRoot", ctx, workDir).Return(parent, nil)

		cfg := &Config{}
		input := validInput()
		input.RepoPathStr = workDir
		err = ResolveRepoPath(ctx, cfg, mockClient, input)

		assert.NoError(t, err)
		assert.Equal(t, parent, cfg.RepoPath)
		assert.Equal(t, filepath.Base(workDir), cfg.PathFilter)
		mockClient.AssertExpectations(t)
	})

	t.Run("client error is surfaced", func(t *testing.T) {
		workDir, err := filepath.Abs(".")
		require.NoError(t, err)

		mockClient := new(MockSCMClient)
		mockClient.On("GetRepoRoot", ctx, workDir).Return("", assert.AnError)

		cfg := &Config{}
		err = ResolveRepoPath(ctx, cfg, mockClient, validInput())

		assert.Error(t, err)
		mockClient.AssertExpectations(t)
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite never needs one", schema.SQLiteBackend, "", false},
		{"bolt never needs one", schema.BoltBackend, "", false},
		{"none never needs one", schema.NoneBackend, "", false},
		{"mysql missing", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass/db", true},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/db", false},
		{"postgres missing", schema.PostgreSQLBackend, "", true},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=cm", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=cm", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		RepoPath:  "/repo",
		Excludes:  []string{"go.sum"},
		StopWords: []string{"src"},
	}

	clone := cfg.Clone()
	clone.Excludes[0] = "mutated"
	clone.StopWords[0] = "mutated"

	assert.Equal(t, "go.sum", cfg.Excludes[0], "Clone should deep-copy excludes")
	assert.Equal(t, "src", cfg.StopWords[0], "Clone should deep-copy stop words")
	assert.Equal(t, cfg.RepoPath, clone.RepoPath)
}

func TestCloneWithTimeWindow(t *testing.T) {
	cfg := &Config{RepoPath: "/repo"}
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	clone := cfg.CloneWithTimeWindow(after, before)

	assert.Equal(t, after, clone.After)
	assert.Equal(t, before, clone.Before)
	assert.True(t, cfg.After.IsZero(), "original window should be untouched")
}

func TestNewSCMClient(t *testing.T) {
	assert.IsType(t, &LocalGitClient{}, NewSCMClient(schema.GitSCM))
	assert.IsType(t, &LocalSvnClient{}, NewSCMClient(schema.SvnSCM))
}

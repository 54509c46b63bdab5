package iocache

import (
	"strings"
	"testing"

	"github.com/quantifio/codemetrics/schema"
	"github.com/stretchr/testify/assert"
)

// TestValidateTableName tests the validateTableName function with various inputs.
func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{
			name:      "valid simple name",
			tableName: "codemetrics_cache",
			wantErr:   false,
		},
		{
			name:      "valid name with numbers",
			tableName: "cache_table_123",
			wantErr:   false,
		},
		{
			name:      "valid name starting with underscore",
			tableName: "_cache_table",
			wantErr:   false,
		},
		{
			name:      "valid uppercase name",
			tableName: "CACHE_TABLE",
			wantErr:   false,
		},
		{
			name:      "empty name",
			tableName: "",
			wantErr:   true,
		},
		{
			name:      "starts with number",
			tableName: "123_table",
			wantErr:   true,
		},
		{
			name:      "contains dash",
			tableName: "cache-table",
			wantErr:   true,
		},
		{
			name:      "contains space",
			tableName: "cache table",
			wantErr:   true,
		},
		{
			name:      "sql injection attempt",
			tableName: "cache'; DROP TABLE users; --",
			wantErr:   true,
		},
		{
			name:      "contains dot",
			tableName: "cache.table",
			wantErr:   true,
		},
		{
			name:      "contains semicolon",
			tableName: "cache;table",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err, "validateTableName should error for %q", tt.tableName)
			} else {
				assert.NoError(t, err, "validateTableName should not error for %q", tt.tableName)
			}
		})
	}
}

// TestValidateTableNameEdgeCases tests long and non-ASCII names.
func TestValidateTableNameEdgeCases(t *testing.T) {
	longName := strings.Repeat("a", 1000)
	err := validateTableName(longName)
	assert.NoError(t, err, "Long valid table name should not error")

	// Unicode character '表' (meaning 'table') is intentionally used here to test that
	// table names with Unicode are rejected. This is not a typo.
	err = validateTableName("cache_表")
	assert.Error(t, err, "Unicode characters should be rejected")
}

// TestQuoteTableName tests the quoteTableName function for all backends.
func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		backend   schema.DatabaseBackend
		want      string
	}{
		{
			name:      "SQLite backend",
			tableName: "cache_table",
			backend:   schema.SQLiteBackend,
			want:      `"cache_table"`,
		},
		{
			name:      "MySQL backend",
			tableName: "cache_table",
			backend:   schema.MySQLBackend,
			want:      "`cache_table`",
		},
		{
			name:      "PostgreSQL backend",
			tableName: "cache_table",
			backend:   schema.PostgreSQLBackend,
			want:      `"cache_table"`,
		},
		{
			name:      "None backend defaults to SQLite style",
			tableName: "cache_table",
			backend:   schema.NoneBackend,
			want:      `"cache_table"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := quoteTableName(tt.tableName, tt.backend)
			assert.Equal(t, tt.want, got, "quoteTableName(%q, %q)", tt.tableName, tt.backend)
		})
	}
}

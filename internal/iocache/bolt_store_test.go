package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/quantifio/codemetrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestBoltStore opens a Bolt store in a per-test temp directory.
func newTestBoltStore(t *testing.T) *BoltCacheStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.bolt")
	store, err := newBoltCacheStore(path)
	require.NoError(t, err, "Failed to create Bolt store")
	t.Cleanup(func() { _ = store.Close() })
	return store.(*BoltCacheStore)
}

// TestBoltCacheOperations tests the full lifecycle of Bolt cache operations.
func TestBoltCacheOperations(t *testing.T) {
	t.Run("set and get operations", func(t *testing.T) {
		store := newTestBoltStore(t)

		err := store.Set("test_key", []byte("test_value_data"), 1, 1234567890)
		assert.NoError(t, err, "Set should not fail")

		value, version, timestamp, err := store.Get("test_key")
		assert.NoError(t, err, "Get should not fail")

		assert.Equal(t, "test_value_data", string(value), "Get value mismatch")
		assert.Equal(t, 1, version, "Get version mismatch")
		assert.Equal(t, int64(1234567890), timestamp, "Get timestamp mismatch")
	})

	t.Run("upsert behavior", func(t *testing.T) {
		store := newTestBoltStore(t)

		err := store.Set("upsert_key", []byte("initial_value"), 1, 1000)
		assert.NoError(t, err, "Initial Set should not fail")

		err = store.Set("upsert_key", []byte("updated_value"), 2, 2000)
		assert.NoError(t, err, "Update Set should not fail")

		value, version, timestamp, err := store.Get("upsert_key")
		assert.NoError(t, err, "Get after update should not fail")

		assert.Equal(t, "updated_value", string(value), "After upsert, value mismatch")
		assert.Equal(t, 2, version, "After upsert, version mismatch")
		assert.Equal(t, int64(2000), timestamp, "After upsert, timestamp mismatch")
	})

	t.Run("get non-existent key", func(t *testing.T) {
		store := newTestBoltStore(t)

		_, _, _, err := store.Get("non_existent_key")
		assert.Equal(t, errBoltMiss, err, "Get non-existent key should return errBoltMiss")
	})

	t.Run("empty payload round trip", func(t *testing.T) {
		store := newTestBoltStore(t)

		err := store.Set("empty_key", nil, 3, 4000)
		assert.NoError(t, err, "Set with empty payload should not fail")

		value, version, timestamp, err := store.Get("empty_key")
		assert.NoError(t, err, "Get should not fail")
		assert.Empty(t, value, "Payload should be empty")
		assert.Equal(t, 3, version, "Version mismatch")
		assert.Equal(t, int64(4000), timestamp, "Timestamp mismatch")
	})
}

// TestBoltCachePersistence tests that values survive a reopen of the file.
func TestBoltCachePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bolt")

	store, err := newBoltCacheStore(path)
	require.NoError(t, err, "Failed to create Bolt store")

	err = store.Set("durable_key", []byte("durable_value"), 7, 9000)
	require.NoError(t, err, "Set should not fail")
	require.NoError(t, store.Close(), "Close should not fail")

	// Reopen the same file
	reopened, err := newBoltCacheStore(path)
	require.NoError(t, err, "Failed to reopen Bolt store")
	defer func() { _ = reopened.Close() }()

	value, version, timestamp, err := reopened.Get("durable_key")
	assert.NoError(t, err, "Get after reopen should not fail")
	assert.Equal(t, "durable_value", string(value), "Value should survive reopen")
	assert.Equal(t, 7, version, "Version should survive reopen")
	assert.Equal(t, int64(9000), timestamp, "Timestamp should survive reopen")
}

// TestBoltCacheGetStatus tests the GetStatus method for the Bolt backend.
func TestBoltCacheGetStatus(t *testing.T) {
	t.Run("with data", func(t *testing.T) {
		store := newTestBoltStore(t)

		entries := []struct {
			key string
			ts  int64
		}{
			{"key1", 1000},
			{"key2", 2000},
			{"key3", 1500},
		}
		for _, entry := range entries {
			err := store.Set(entry.key, []byte("value"), 1, entry.ts)
			assert.NoError(t, err, "Set should not fail")
		}

		status, err := store.GetStatus()
		assert.NoError(t, err, "GetStatus should not fail")

		assert.Equal(t, string(schema.BoltBackend), status.Backend, "Backend should be bolt")
		assert.True(t, status.Connected, "Should be connected")
		assert.Equal(t, 3, status.TotalEntries, "Total entries should be 3")
		assert.Equal(t, time.Unix(2000, 0), status.LastEntryTime, "Last entry time should be 2000")
		assert.Equal(t, time.Unix(1000, 0), status.OldestEntryTime, "Oldest entry time should be 1000")
		assert.Greater(t, status.SizeBytes, int64(0), "Size should be greater than 0")
	})

	t.Run("empty", func(t *testing.T) {
		store := newTestBoltStore(t)

		status, err := store.GetStatus()
		assert.NoError(t, err, "GetStatus should not fail")

		assert.Equal(t, 0, status.TotalEntries, "Total entries should be 0")
		assert.True(t, status.LastEntryTime.IsZero(), "Last entry time should be zero")
		assert.True(t, status.OldestEntryTime.IsZero(), "Oldest entry time should be zero")
	})
}

// TestNewCacheStoreBoltDispatch tests that NewCacheStore routes the bolt
// backend to the Bolt implementation.
func TestNewCacheStoreBoltDispatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.bolt")
	store, err := NewCacheStore("test_table", schema.BoltBackend, path)
	require.NoError(t, err, "Failed to create store via dispatch")
	defer func() { _ = store.Close() }()

	_, ok := store.(*BoltCacheStore)
	assert.True(t, ok, "Bolt backend should produce a BoltCacheStore")
}

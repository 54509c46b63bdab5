package iocache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/schema"
)

// boltBucket holds the invocation cache entries.
var boltBucket = []byte("invocations")

// boltHeaderLen is the fixed prefix of every stored value: a 4-byte version
// followed by an 8-byte unix timestamp, both big-endian. The payload follows.
const boltHeaderLen = 12

// errBoltMiss reports a missing or undecodable cache entry.
var errBoltMiss = errors.New("cache entry not found")

// boltOpenTimeout bounds how long opening waits for the file lock held by
// another process.
const boltOpenTimeout = time.Second

// BoltCacheStore implements the CacheStore interface on an embedded Bolt
// file. It needs no server and keeps everything in one file, like the
// SQLite backend, but without SQL.
type BoltCacheStore struct {
	db   *bolt.DB
	path string
}

var _ contract.CacheStore = &BoltCacheStore{} // Compile-time check

// newBoltCacheStore opens (or creates) the Bolt file and its bucket.
func newBoltCacheStore(path string) (contract.CacheStore, error) {
	if path == "" {
		path = GetCacheBoltFilePath()
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Bolt cache at %q: %w. Ensure the file is not locked by another process", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &BoltCacheStore{db: db, path: path}, nil
}

// Get retrieves a value by key from the store.
func (bs *BoltCacheStore) Get(key string) ([]byte, int, int64, error) {
	var value []byte
	var version int
	var ts int64

	err := bs.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltBucket).Get([]byte(key))
		if raw == nil || len(raw) < boltHeaderLen {
			return errBoltMiss
		}
		version = int(binary.BigEndian.Uint32(raw[:4]))
		ts = int64(binary.BigEndian.Uint64(raw[4:boltHeaderLen]))

		// The slice is only valid inside the transaction.
		value = make([]byte, len(raw)-boltHeaderLen)
		copy(value, raw[boltHeaderLen:])
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (bs *BoltCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	raw := make([]byte, boltHeaderLen+len(value))
	binary.BigEndian.PutUint32(raw[:4], uint32(version))
	binary.BigEndian.PutUint64(raw[4:boltHeaderLen], uint64(timestamp))
	copy(raw[boltHeaderLen:], value)

	return bs.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), raw)
	})
}

// Close closes the underlying Bolt file.
func (bs *BoltCacheStore) Close() error {
	return bs.db.Close()
}

// GetStatus returns status information about the cache store.
func (bs *BoltCacheStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(schema.BoltBackend),
		Connected: true,
	}

	err := bs.db.View(func(tx *bolt.Tx) error {
		status.SizeBytes = tx.Size()

		var oldest, last int64
		err := tx.Bucket(boltBucket).ForEach(func(_, raw []byte) error {
			if len(raw) < boltHeaderLen {
				return nil
			}
			ts := int64(binary.BigEndian.Uint64(raw[4:boltHeaderLen]))
			if status.TotalEntries == 0 || ts < oldest {
				oldest = ts
			}
			if ts > last {
				last = ts
			}
			status.TotalEntries++
			return nil
		})
		if err != nil {
			return err
		}
		if status.TotalEntries > 0 {
			status.OldestEntryTime = time.Unix(oldest, 0)
			status.LastEntryTime = time.Unix(last, 0)
		}
		return nil
	})
	if err != nil {
		return status, fmt.Errorf("failed to scan cache bucket: %w", err)
	}
	return status, nil
}

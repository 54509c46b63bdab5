package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/quantifio/codemetrics/schema"
)

// MockSCMClient is a mock implementation of the SCMClient interface for testing.
type MockSCMClient struct {
	mock.Mock
	MockKind schema.SCMKind
}

var _ SCMClient = &MockSCMClient{} // Compile-time check

// Kind implements the SCMClient interface.
func (m *MockSCMClient) Kind() schema.SCMKind {
	if m.MockKind != "" {
		return m.MockKind
	}
	return schema.GitSCM
}

// Run implements the SCMClient interface.
func (m *MockSCMClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	callArgs := make([]any, 0, len(args)+2)
	callArgs = append(callArgs, ctx, repoPath)
	for _, arg := range args {
		callArgs = append(callArgs, arg)
	}
	ret := m.Called(callArgs...)
	return ret.Get(0).([]byte), ret.Error(1)
}

// GetChangeLog implements the SCMClient interface.
func (m *MockSCMClient) GetChangeLog(ctx context.Context, repoPath, relPath string, after, before time.Time) ([]byte, error) {
	ret := m.Called(ctx, repoPath, relPath, after, before)
	return ret.Get(0).([]byte), ret.Error(1)
}

// Download implements the SCMClient interface.
func (m *MockSCMClient) Download(ctx context.Context, repoPath, revision, path string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, revision, path)
	return ret.Get(0).([]byte), ret.Error(1)
}

// GetRepoRoot implements the SCMClient interface.
func (m *MockSCMClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// GetStateToken implements the SCMClient interface.
func (m *MockSCMClient) GetStateToken(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// MockSvnClient is a mock implementation of the SvnClient interface for testing.
type MockSvnClient struct {
	MockSCMClient
}

var _ SvnClient = &MockSvnClient{} // Compile-time check

// Kind implements the SCMClient interface.
func (m *MockSvnClient) Kind() schema.SCMKind {
	return schema.SvnSCM
}

// GetInfo implements the SvnClient interface.
func (m *MockSvnClient) GetInfo(ctx context.Context, repoPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath)
	return ret.Get(0).([]byte), ret.Error(1)
}

// GetDiff implements the SvnClient interface.
func (m *MockSvnClient) GetDiff(ctx context.Context, repoPath, revision string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, revision)
	return ret.Get(0).([]byte), ret.Error(1)
}

// MockLineCounter is a mock implementation of the LineCounter interface for testing.
type MockLineCounter struct {
	mock.Mock
}

var _ LineCounter = &MockLineCounter{} // Compile-time check

// Count implements the LineCounter interface.
func (m *MockLineCounter) Count(ctx context.Context, repoPath, relPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, relPath)
	return ret.Get(0).([]byte), ret.Error(1)
}

// MockComplexityAnalyzer is a mock implementation of the ComplexityAnalyzer interface for testing.
type MockComplexityAnalyzer struct {
	mock.Mock
}

var _ ComplexityAnalyzer = &MockComplexityAnalyzer{} // Compile-time check

// Analyze implements the ComplexityAnalyzer interface.
func (m *MockComplexityAnalyzer) Analyze(ctx context.Context, filePath string) ([]byte, error) {
	ret := m.Called(ctx, filePath)
	return ret.Get(0).([]byte), ret.Error(1)
}

// MockStoreManager is a mock implementation of the StoreManager interface for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ StoreManager = &MockStoreManager{} // Compile-time check

// GetCacheStore implements the StoreManager interface.
func (m *MockStoreManager) GetCacheStore() CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(CacheStore)
	return store
}

// GetRunsStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunsStore() RunsStore {
	ret := m.Called()
	store, _ := ret.Get(0).(RunsStore)
	return store
}

// MockCacheStore is a mock implementation of the CacheStore interface for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	ret := m.Called(key)
	data, _ := ret.Get(0).([]byte)
	return data, ret.Int(1), ret.Get(2).(int64), ret.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	ret := m.Called(key, value, version, timestamp)
	return ret.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	ret := m.Called()
	return ret.Get(0).(schema.CacheStatus), ret.Error(1)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}

// MockRunsStore is a mock implementation of the RunsStore interface for testing.
type MockRunsStore struct {
	mock.Mock
}

var _ RunsStore = &MockRunsStore{} // Compile-time check

// BeginRun implements the RunsStore interface.
func (m *MockRunsStore) BeginRun(rec schema.RunRecord) (int64, error) {
	ret := m.Called(rec)
	return ret.Get(0).(int64), ret.Error(1)
}

// EndRun implements the RunsStore interface.
func (m *MockRunsStore) EndRun(runID int64, rowCount int, durationMS int64, status string) error {
	ret := m.Called(runID, rowCount, durationMS, status)
	return ret.Error(0)
}

// RecordHotSpots implements the RunsStore interface.
func (m *MockRunsStore) RecordHotSpots(runID int64, rows []schema.HotSpotRow) error {
	ret := m.Called(runID, rows)
	return ret.Error(0)
}

// GetAllRuns implements the RunsStore interface.
func (m *MockRunsStore) GetAllRuns() ([]schema.RunRecord, error) {
	ret := m.Called()
	recs, _ := ret.Get(0).([]schema.RunRecord)
	return recs, ret.Error(1)
}

// GetAllHotSpotRecords implements the RunsStore interface.
func (m *MockRunsStore) GetAllHotSpotRecords() ([]schema.HotSpotRecord, error) {
	ret := m.Called()
	recs, _ := ret.Get(0).([]schema.HotSpotRecord)
	return recs, ret.Error(1)
}

// GetStatus implements the RunsStore interface.
func (m *MockRunsStore) GetStatus() (schema.RunsStatus, error) {
	ret := m.Called()
	return ret.Get(0).(schema.RunsStatus), ret.Error(1)
}

// Close implements the RunsStore interface.
func (m *MockRunsStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}

// Package iocache has the durable stores behind invocation caching and run
// tracking.
package iocache

import (
	"sync"

	"github.com/quantifio/codemetrics/internal/contract"
)

// StoreManagerImpl manages the cache and runs store instances.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	cache        contract.CacheStore
	runs         contract.RunsStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetCacheStore returns the invocation CacheStore. Nil means caching is
// disabled.
func (mgr *StoreManagerImpl) GetCacheStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}

// GetRunsStore returns the RunsStore. Nil means run tracking is disabled.
func (mgr *StoreManagerImpl) GetRunsStore() contract.RunsStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}

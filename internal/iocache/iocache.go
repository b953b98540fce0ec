// Package iocache persists interview events and caches computed metrics.
package iocache

import (
	"sync"

	"github.com/huangsam/hirefunnel/internal/contract"
)

// StoreManager holds the event store and the metric cache.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	events       contract.EventStore
	cache        contract.CacheStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetEventStore returns the event store.
func (mgr *StoreManager) GetEventStore() contract.EventStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.events
}

// GetCacheStore returns the metric cache store.
func (mgr *StoreManager) GetCacheStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}

package agg

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/hirefunnel/internal/contract"
)

// currentCacheVersion defines the version of the memo entry layout.
// Bump it whenever a metric row type changes shape.
const currentCacheVersion = 1

// Memo reads through a CacheStore. A nil store or a zero TTL disables caching.
type Memo struct {
	store contract.CacheStore
	ttl   time.Duration
	now   func() time.Time
}

// NewMemo returns a memo over store with entries valid for ttl.
func NewMemo(store contract.CacheStore, ttl time.Duration) *Memo {
	return &Memo{store: store, ttl: ttl, now: time.Now}
}

// Memoize returns the cached value of fn(args) for the dataset fingerprint,
// or runs compute and stores its result.
func Memoize[T any](m *Memo, fingerprint, fn string, args []string, compute func() (T, error)) (T, error) {
	if m == nil || m.store == nil || m.ttl <= 0 {
		return compute()
	}

	key := memoKey(fingerprint, fn, args)
	if result, ok := checkMemoHit[T](m, key); ok {
		return result, nil
	}
	return computeAndStore(m, key, compute)
}

// memoKey hashes fingerprint, function name and arguments.
func memoKey(fingerprint, fn string, args []string) string {
	raw := fmt.Sprintf("%s:%s:%s", fingerprint, fn, strings.Join(args, ","))
	return fmt.Sprintf("%x", sha256.Sum256([]byte(raw)))
}

// checkMemoHit attempts to retrieve and validate a cached result.
func checkMemoHit[T any](m *Memo, key string) (T, bool) {
	var result T
	data, version, ts, err := m.store.Get(key)
	if err != nil {
		return result, false // Cache miss
	}
	if version != currentCacheVersion {
		return result, false
	}
	if m.now().Sub(time.Unix(ts, 0)) > m.ttl {
		return result, false // Stale
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

// computeAndStore computes the result and stores it in the cache.
// A failed write is logged and does not fail the computation.
func computeAndStore[T any](m *Memo, key string, compute func() (T, error)) (T, error) {
	result, err := compute()
	if err != nil {
		return result, err
	}
	data, err := json.Marshal(result)
	if err != nil {
		contract.LogWarn("Failed to encode memo entry", err)
		return result, nil
	}
	if err := m.store.Set(key, data, currentCacheVersion, m.now().Unix()); err != nil {
		contract.LogWarn("Failed to write memo entry", err)
	}
	return result, nil
}

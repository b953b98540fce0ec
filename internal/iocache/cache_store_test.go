package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/hirefunnel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStore_NoneBackend(t *testing.T) {
	store, err := NewCacheStore(memoTable, schema.NoneBackend, "")
	require.NoError(t, err)

	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
	assert.NoError(t, store.Purge())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestCacheStore_InvalidTableName(t *testing.T) {
	_, err := NewCacheStore("drop table;", schema.SQLiteBackend, "")
	assert.Error(t, err)
}

func TestCacheStore_SQLite(t *testing.T) {
	store, err := NewCacheStore(memoTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	now := time.Now().Unix()
	require.NoError(t, store.Set("screens", []byte(`[1]`), 1, now))
	require.NoError(t, store.Set("screens", []byte(`[2]`), 2, now+1))

	value, version, ts, err := store.Get("screens")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[2]`), value, "upsert replaces the entry")
	assert.Equal(t, 2, version)
	assert.Equal(t, now+1, ts)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalEntries)
	assert.Equal(t, now+1, status.LastEntryTime.Unix())
	assert.Positive(t, status.TableSizeBytes)

	require.NoError(t, store.Purge())
	_, _, _, err = store.Get("screens")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

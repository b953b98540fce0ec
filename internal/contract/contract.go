// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/hirefunnel/schema"
)

// StoreManager defines the interface for reaching the configured stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetEventStore() EventStore
	GetCacheStore() CacheStore
}

// CacheStore defines the interface for the metric memo cache.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Purge() error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// EventStore defines the interface for the interview event and upload tables.
type EventStore interface {
	// LoadEvents returns every persisted event in insertion order.
	LoadEvents(ctx context.Context) ([]schema.InterviewEvent, error)

	// NaturalKeys returns the set of natural key hashes already persisted.
	NaturalKeys(ctx context.Context) (map[string]struct{}, error)

	// Ingest writes the upload record and its events in one transaction.
	// Events whose natural key already exists are skipped, or fail the
	// whole batch with an IngestConflictError when strict is set.
	// It returns the number of events inserted.
	Ingest(ctx context.Context, upload schema.UploadRecord, events []schema.InterviewEvent, strict bool) (int, error)

	// CountEvents returns the number of persisted events.
	CountEvents(ctx context.Context) (int, error)

	// ListUploads returns upload records, newest first.
	ListUploads(ctx context.Context) ([]schema.UploadRecord, error)

	// DeleteUpload removes the upload records for filename and, when
	// purgeEvents is set, the events those uploads inserted.
	DeleteUpload(ctx context.Context, filename string, purgeEvents bool) (schema.UploadDeletion, error)

	// GetStatus returns status information about the event store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

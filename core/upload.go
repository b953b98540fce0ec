package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/hirefunnel/core/ingest"
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/internal/telemetry"
	"github.com/huangsam/hirefunnel/schema"
)

var errStoreNotInitialized = errors.New("store not initialized")

// eventStore returns the event store or a StoreUnavailableError.
func eventStore(mgr contract.StoreManager) (contract.EventStore, error) {
	var store contract.EventStore
	if mgr != nil {
		store = mgr.GetEventStore()
	}
	if store == nil {
		return nil, &contract.StoreUnavailableError{Backend: "event", Err: errStoreNotInitialized}
	}
	return store, nil
}

// IngestFile reads, normalizes and deduplicates one upload, then appends the
// new events in a single transaction. The metric cache is purged whenever
// something was inserted.
func IngestFile(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, path string) (schema.IngestResult, error) {
	store, err := eventStore(mgr)
	if err != nil {
		return schema.IngestResult{}, err
	}

	table, err := ingest.ReadFile(path, cfg.MaxUploadBytes)
	if err != nil {
		return schema.IngestResult{}, err
	}
	result := schema.IngestResult{Filename: table.Filename}

	events, err := ingest.ParseEvents(table.Header, table.Rows, cfg.DateLayouts)
	if err != nil {
		return result, err
	}
	result.RowsParsed = len(events)

	events, result.DuplicatesInBatch = ingest.DedupeBatch(events)

	known, err := store.NaturalKeys(ctx)
	if err != nil {
		return result, &contract.StoreUnavailableError{Backend: string(cfg.StoreBackend), Err: err}
	}
	fresh, dropped := ingest.FilterNew(events, known)
	result.AlreadyPersisted = dropped

	if len(fresh) > 0 {
		upload := schema.UploadRecord{
			ID:              uuid.NewString(),
			Filename:        table.Filename,
			UploadTimestamp: time.Now().UTC(),
			RecordCount:     len(fresh),
			Checksum:        table.Checksum,
		}
		inserted, err := store.Ingest(ctx, upload, fresh, cfg.Strict)
		if err != nil {
			return result, err
		}
		result.Inserted = inserted
		result.Conflicts = len(fresh) - inserted
		if inserted > 0 {
			result.UploadID = upload.ID
			purgeCache(mgr)
		}
	}

	total, err := store.CountEvents(ctx)
	if err != nil {
		contract.LogWarn("Failed to count events", err)
	}
	result.TotalRecords = total
	return result, nil
}

// ListUploads returns the upload history, newest first.
func ListUploads(ctx context.Context, mgr contract.StoreManager) ([]schema.UploadRecord, error) {
	store, err := eventStore(mgr)
	if err != nil {
		return nil, err
	}
	return store.ListUploads(ctx)
}

// DeleteUpload removes the uploads of filename and, with purgeEvents, the
// events they inserted. The metric cache is purged afterwards.
func DeleteUpload(ctx context.Context, mgr contract.StoreManager, filename string, purgeEvents bool) (schema.UploadDeletion, error) {
	store, err := eventStore(mgr)
	if err != nil {
		return schema.UploadDeletion{}, err
	}
	if filename == "" {
		return schema.UploadDeletion{}, &contract.ValidationError{Reason: "filename is required"}
	}
	result, err := store.DeleteUpload(ctx, filename, purgeEvents)
	if err != nil {
		return result, err
	}
	purgeCache(mgr)
	return result, nil
}

// purgeCache drops every memoized metric. Failures only warn.
func purgeCache(mgr contract.StoreManager) {
	if mgr == nil {
		return
	}
	cache := mgr.GetCacheStore()
	if cache == nil {
		return
	}
	if err := cache.Purge(); err != nil {
		contract.LogWarn("Failed to purge metric cache", err)
	}
}

// newRecorder returns a recorder with its own registry, so repeated runs in
// one process never collide.
func newRecorder() *telemetry.Recorder {
	return telemetry.NewRecorder()
}

// writeMetrics flushes the recorder to the textfile when one is configured.
func writeMetrics(rec *telemetry.Recorder, path string) {
	if err := rec.WriteTextfile(path); err != nil {
		contract.LogWarn(fmt.Sprintf("Failed to write metrics to %s", path), err)
	}
}

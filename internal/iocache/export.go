package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/internal/parquet"
)

// ExecuteStoreExport writes the events and uploads of the store to
// <outputFile>.events.parquet and <outputFile>.uploads.parquet.
func ExecuteStoreExport(ctx context.Context, w io.Writer, store contract.EventStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRecords == 0 {
		return errors.New("no interview events found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	events, err := store.LoadEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	uploads, err := store.ListUploads(ctx)
	if err != nil {
		return fmt.Errorf("failed to list uploads: %w", err)
	}

	eventsFile := outputFile + ".events.parquet"
	if err := parquet.WriteEventsParquet(parquet.ConvertEvents(events), eventsFile); err != nil {
		return fmt.Errorf("failed to write events: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d events to: %s\n", len(events), eventsFile)

	uploadsFile := outputFile + ".uploads.parquet"
	if err := parquet.WriteUploadsParquet(parquet.ConvertUploads(uploads), uploadsFile); err != nil {
		return fmt.Errorf("failed to write uploads: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d uploads to: %s\n", len(uploads), uploadsFile)

	return nil
}

// Package core wires ingest, aggregation and rendering into the commands.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/internal/outwriter"
	"github.com/huangsam/hirefunnel/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteDashboard builds the full dashboard and prints it.
// It serves as the main entry point for the 'dashboard' command.
func ExecuteDashboard(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	d, err := BuildDashboard(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDashboard(d, cfg, time.Since(start))
}

// ExecuteReport builds one section and prints it.
// It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, section string) error {
	s, err := ParseSection(section)
	if err != nil {
		return err
	}
	d, err := BuildDashboard(ctx, cfg, mgr, s)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReport(d, s, cfg)
}

// ParseSection validates a section name.
func ParseSection(raw string) (schema.Section, error) {
	s := schema.Section(raw)
	if _, ok := schema.ValidSections[s]; !ok {
		return "", &contract.ValidationError{Reason: fmt.Sprintf("unknown section %q: must be one of %s", raw, sectionNames())}
	}
	return s, nil
}

func sectionNames() string {
	out := ""
	for i, s := range schema.AllSections {
		if i > 0 {
			out += ", "
		}
		out += string(s)
	}
	return out
}

// ExecuteIngest loads the configured input file into the store and prints
// the outcome. Ingest counters go to the metrics textfile when one is set.
func ExecuteIngest(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	rec := newRecorder()
	start := time.Now()
	result, err := IngestFile(ctx, cfg, mgr, cfg.InputPath)
	if err != nil {
		rec.ObserveFailure(time.Since(start))
		writeMetrics(rec, cfg.MetricsTextfile)
		return err
	}
	rec.ObserveIngest(result, time.Since(start))
	writeMetrics(rec, cfg.MetricsTextfile)
	return outwriter.NewOutWriter().WriteIngestResult(result, cfg)
}

// ExecuteUploadsList prints the upload history, newest first.
func ExecuteUploadsList(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	uploads, err := ListUploads(ctx, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteUploads(uploads, cfg)
}

// ExecuteUploadsDelete removes the uploads of a file and prints the outcome.
func ExecuteUploadsDelete(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, filename string) error {
	result, err := DeleteUpload(ctx, mgr, filename, cfg.PurgeEvents)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDeletion(result, cfg)
}

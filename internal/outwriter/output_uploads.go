package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// checksumPrefix is how much of a checksum the text table shows.
const checksumPrefix = 12

// WriteUploads outputs the upload history, newest first.
func WriteUploads(uploads []schema.UploadRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, uploads)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"id", "filename", "upload_timestamp", "record_count", "checksum"}
		rows := make([][]string, 0, len(uploads))
		for _, u := range uploads {
			rows = append(rows, []string{u.ID, u.Filename, u.UploadTimestamp.Format(contract.DateTimeFormat), strconv.Itoa(u.RecordCount), u.Checksum})
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVTable(w, header, rows)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeUploadsText(w, uploads, cfg)
		}, "Wrote table")
	}
}

func writeUploadsText(w io.Writer, uploads []schema.UploadRecord, cfg *contract.Config) error {
	if len(uploads) == 0 {
		_, err := fmt.Fprintln(w, "No uploads yet.")
		return err
	}
	t := table{
		Title:  "Upload History",
		Header: []string{"Filename", "Uploaded", "Records", "Checksum", "ID"},
	}
	width := maxNameWidth(cfg.Width)
	total := 0
	for _, u := range uploads {
		checksum := u.Checksum
		if len(checksum) > checksumPrefix {
			checksum = checksum[:checksumPrefix]
		}
		t.Rows = append(t.Rows, []string{
			contract.TruncateName(u.Filename, width),
			humanize.Time(u.UploadTimestamp),
			humanize.Comma(int64(u.RecordCount)),
			checksum,
			u.ID,
		})
		total += u.RecordCount
	}
	if err := renderTable(w, t); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d uploads, %s records inserted\n", len(uploads), humanize.Comma(int64(total)))
	return err
}

// WriteIngestResult outputs the summary of an ingest run.
func WriteIngestResult(result schema.IngestResult, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeIngestText(w, result)
	}, "Wrote summary")
}

func writeIngestText(w io.Writer, r schema.IngestResult) error {
	var lines []string
	if r.Inserted == 0 {
		lines = append(lines, fmt.Sprintf("No new records in %s", r.Filename))
	} else {
		lines = append(lines, fmt.Sprintf("✅ Ingested %s new records from %s", humanize.Comma(int64(r.Inserted)), r.Filename))
	}
	lines = append(lines,
		fmt.Sprintf("Rows parsed: %s", humanize.Comma(int64(r.RowsParsed))),
		fmt.Sprintf("Duplicates in file: %d", r.DuplicatesInBatch),
		fmt.Sprintf("Already stored: %d", r.AlreadyPersisted),
	)
	if r.Conflicts > 0 {
		lines = append(lines, fmt.Sprintf("Skipped on conflict: %d", r.Conflicts))
	}
	if r.UploadID != "" {
		lines = append(lines, fmt.Sprintf("Upload ID: %s", r.UploadID))
	}
	lines = append(lines, fmt.Sprintf("Total records: %s", humanize.Comma(int64(r.TotalRecords))))

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteDeletion outputs the summary of an upload rollback.
func WriteDeletion(result schema.UploadDeletion, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "🗑️  Deleted %d upload record(s) for %s and %d event(s)\n",
			result.UploadsDeleted, result.Filename, result.EventsDeleted)
		return err
	}, "Wrote summary")
}

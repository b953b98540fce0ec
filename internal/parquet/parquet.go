// Package parquet exports interview events, uploads and metric rows to
// Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/hirefunnel/schema"
	"github.com/parquet-go/parquet-go"
)

// Event is one interview event. It maps to the recruitment_data table.
type Event struct {
	NaturalKey    string    `parquet:"natural_key,snappy"`
	CandidateName string    `parquet:"candidate_name,snappy"`
	InterviewDate time.Time `parquet:"interview_date,snappy"`
	Interviewer   string    `parquet:"interviewer,snappy"`
	FeedbackForm  string    `parquet:"feedback_form,snappy"`

	// OverallScore is null when the interviewer left no score
	OverallScore *float64 `parquet:"overall_score,optional,snappy"`

	CandidateOrigin    string  `parquet:"candidate_origin,snappy"`
	CandidateOwnerName *string `parquet:"candidate_owner_name,optional,snappy"`
	PostingTitle       *string `parquet:"posting_title,optional,snappy"`
}

// Upload is one accepted upload. It maps to the file_uploads table.
type Upload struct {
	ID              string    `parquet:"id,snappy"`
	Filename        string    `parquet:"filename,snappy"`
	UploadTimestamp time.Time `parquet:"upload_timestamp,snappy"`
	RecordCount     int32     `parquet:"record_count,snappy"`
	Checksum        string    `parquet:"checksum,snappy"`
}

// Detail is one row of the per-week, per-recruiter detail table.
type Detail struct {
	Week         string  `parquet:"week,snappy"`
	Recruiter    string  `parquet:"recruiter,snappy"`
	TotalScreens int32   `parquet:"total_screens,snappy"`
	Passes       int32   `parquet:"passes,snappy"`
	PassRate     float64 `parquet:"pass_rate,snappy"`
	Onsites      int32   `parquet:"onsites,snappy"`
	Conversion   float64 `parquet:"conversion,snappy"`
}

// ConvertEvents maps interview events to Parquet rows.
func ConvertEvents(events []schema.InterviewEvent) []Event {
	rows := make([]Event, 0, len(events))
	for _, ev := range events {
		rows = append(rows, Event{
			NaturalKey:         ev.KeyHash(),
			CandidateName:      ev.CandidateName,
			InterviewDate:      ev.InterviewTimestamp.UTC(),
			Interviewer:        ev.Interviewer,
			FeedbackForm:       ev.FeedbackFormType,
			OverallScore:       ev.OverallScore,
			CandidateOrigin:    ev.CandidateOrigin,
			CandidateOwnerName: ev.CandidateOwnerName,
			PostingTitle:       ev.PostingTitle,
		})
	}
	return rows
}

// ConvertUploads maps upload records to Parquet rows.
func ConvertUploads(uploads []schema.UploadRecord) []Upload {
	rows := make([]Upload, 0, len(uploads))
	for _, u := range uploads {
		rows = append(rows, Upload{
			ID:              u.ID,
			Filename:        u.Filename,
			UploadTimestamp: u.UploadTimestamp.UTC(),
			RecordCount:     int32(u.RecordCount),
			Checksum:        u.Checksum,
		})
	}
	return rows
}

// ConvertDetails maps detail metric rows to Parquet rows.
func ConvertDetails(details []schema.DetailedMetric) []Detail {
	rows := make([]Detail, 0, len(details))
	for _, d := range details {
		rows = append(rows, Detail{
			Week:         d.Week,
			Recruiter:    d.Recruiter,
			TotalScreens: int32(d.TotalScreens),
			Passes:       int32(d.Passes),
			PassRate:     d.PassRate,
			Onsites:      int32(d.Onsites),
			Conversion:   d.Conversion,
		})
	}
	return rows
}

// WriteEventsParquet writes events to a Parquet file.
func WriteEventsParquet(data []Event, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteUploadsParquet writes uploads to a Parquet file.
func WriteUploadsParquet(data []Upload, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteDetailsParquet writes detail rows to a Parquet file.
func WriteDetailsParquet(data []Detail, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows writes rows to outputPath with a schema inferred from T's tags.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to flush parquet file: %w", err)
	}
	return nil
}

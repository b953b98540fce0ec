// Package schema has the records, metric rows and constants shared by all parts of hirefunnel.
package schema

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// NaturalKeyLayout is the minute-resolution timestamp layout used in natural keys.
const NaturalKeyLayout = "2006-01-02T15:04"

// InterviewEvent is one interview record: a single interviewer meeting a single candidate.
type InterviewEvent struct {
	CandidateName      string    `json:"candidate_name"`
	InterviewTimestamp time.Time `json:"interview_timestamp"`
	Interviewer        string    `json:"interviewer"`
	FeedbackFormType   string    `json:"feedback_form_type"`
	OverallScore       *float64  `json:"overall_score"`
	CandidateOrigin    string    `json:"candidate_origin"`
	CandidateOwnerName *string   `json:"candidate_owner_name,omitempty"`
	PostingTitle       *string   `json:"posting_title,omitempty"`
}

// NaturalKey returns the identity of the event: candidate, minute and feedback form.
// Two events with the same natural key are the same event.
func (e InterviewEvent) NaturalKey() string {
	return strings.Join([]string{
		CanonicalName(e.CandidateName),
		e.InterviewTimestamp.UTC().Truncate(time.Minute).Format(NaturalKeyLayout),
		CanonicalName(e.FeedbackFormType),
	}, "\x1f")
}

// KeyHash returns the hex sha256 of the natural key. It is what the store
// keeps in its unique column.
func (e InterviewEvent) KeyHash() string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(e.NaturalKey())))
}

// HasScore reports whether the event carries a numeric score.
func (e InterviewEvent) HasScore() bool {
	return e.OverallScore != nil
}

// ScoreAtLeast reports whether the event has a score of at least threshold.
func (e InterviewEvent) ScoreAtLeast(threshold float64) bool {
	return e.OverallScore != nil && *e.OverallScore >= threshold
}

// CanonicalName trims a person or form name and puts it in Unicode NFC so that
// visually identical names compare equal.
func CanonicalName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// UploadRecord is one accepted upload.
type UploadRecord struct {
	ID              string    `json:"id"`
	Filename        string    `json:"filename"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
	RecordCount     int       `json:"record_count"`
	Checksum        string    `json:"checksum"`
}

// IngestResult summarizes a single ingest run.
type IngestResult struct {
	UploadID          string `json:"upload_id,omitempty"`
	Filename          string `json:"filename"`
	RowsParsed        int    `json:"rows_parsed"`
	DuplicatesInBatch int    `json:"duplicates_in_batch"`
	AlreadyPersisted  int    `json:"already_persisted"`
	Inserted          int    `json:"inserted"`
	Conflicts         int    `json:"conflicts"`
	TotalRecords      int    `json:"total_records"`
}

// UploadDeletion summarizes an upload rollback.
type UploadDeletion struct {
	Filename       string `json:"filename"`
	UploadsDeleted int    `json:"uploads_deleted"`
	EventsDeleted  int    `json:"events_deleted"`
}

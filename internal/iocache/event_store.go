package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// Table names for the event store.
const (
	uploadsTable = "file_uploads"
	eventsTable  = "recruitment_data"
)

// eventColumns lists the persisted event columns in insert order.
var eventColumns = []string{
	"natural_key",
	"upload_id",
	"candidate_name",
	"interview_date",
	"interviewer",
	"feedback_form",
	"overall_score",
	"candidate_origin",
	"candidate_owner_name",
	"posting_title",
}

// EventStoreImpl persists interview events and upload records.
type EventStoreImpl struct {
	mu      sync.Mutex // Serializes writers within the process
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.EventStore = &EventStoreImpl{} // Compile-time check

// NewEventStore opens the event store and creates its tables when missing.
func NewEventStore(backend schema.DatabaseBackend, connStr string) (*EventStoreImpl, error) {
	if backend == schema.NoneBackend {
		return nil, fmt.Errorf("event store requires a database backend")
	}
	db, err := openDB(backend, connStr, contract.GetStoreDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createEventTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create event tables: %w", err)
	}
	return &EventStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// createEventTables runs each CREATE TABLE statement in turn.
func createEventTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{uploadsTable, uploadsTableDDL(backend)},
		{eventsTable, eventsTableDDL(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// uploadsTableDDL returns the CREATE TABLE statement for file_uploads.
func uploadsTableDDL(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(uploadsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(36) PRIMARY KEY,
			filename VARCHAR(255) NOT NULL,
			upload_timestamp DATETIME(6) NOT NULL,
			record_count INT NOT NULL,
			checksum CHAR(64) NOT NULL
		)`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(36) PRIMARY KEY,
			filename TEXT NOT NULL,
			upload_timestamp TIMESTAMPTZ NOT NULL,
			record_count INTEGER NOT NULL,
			checksum CHAR(64) NOT NULL
		)`, quoted)
	default: // SQLite
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			upload_timestamp TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			checksum TEXT NOT NULL
		)`, quoted)
	}
}

// eventsTableDDL returns the CREATE TABLE statement for recruitment_data.
func eventsTableDDL(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(eventsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			natural_key CHAR(64) NOT NULL UNIQUE,
			upload_id VARCHAR(36) NOT NULL,
			candidate_name VARCHAR(255) NOT NULL,
			interview_date DATETIME(6) NOT NULL,
			interviewer VARCHAR(255) NOT NULL,
			feedback_form VARCHAR(255) NOT NULL,
			overall_score DOUBLE,
			candidate_origin VARCHAR(255) NOT NULL,
			candidate_owner_name VARCHAR(255),
			posting_title VARCHAR(255)
		)`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			natural_key CHAR(64) NOT NULL UNIQUE,
			upload_id VARCHAR(36) NOT NULL,
			candidate_name TEXT NOT NULL,
			interview_date TIMESTAMPTZ NOT NULL,
			interviewer TEXT NOT NULL,
			feedback_form TEXT NOT NULL,
			overall_score DOUBLE PRECISION,
			candidate_origin TEXT NOT NULL,
			candidate_owner_name TEXT,
			posting_title TEXT
		)`, quoted)
	default: // SQLite
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			natural_key TEXT NOT NULL UNIQUE,
			upload_id TEXT NOT NULL,
			candidate_name TEXT NOT NULL,
			interview_date TEXT NOT NULL,
			interviewer TEXT NOT NULL,
			feedback_form TEXT NOT NULL,
			overall_score REAL,
			candidate_origin TEXT NOT NULL,
			candidate_owner_name TEXT,
			posting_title TEXT
		)`, quoted)
	}
}

// insertEventQuery returns the conflict-skipping insert for one event.
func (es *EventStoreImpl) insertEventQuery() string {
	quoted := quoteTableName(eventsTable, es.backend)
	cols := strings.Join(eventColumns, ", ")
	values := placeholders(es.backend, len(eventColumns))
	switch es.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES (%s)", quoted, cols, values)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (natural_key) DO NOTHING", quoted, cols, values)
	default: // SQLite
		return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)", quoted, cols, values)
	}
}

// LoadEvents returns every persisted event in insertion order.
func (es *EventStoreImpl) LoadEvents(ctx context.Context) ([]schema.InterviewEvent, error) {
	query := fmt.Sprintf(`SELECT candidate_name, interview_date, interviewer, feedback_form, overall_score,
		candidate_origin, candidate_owner_name, posting_title FROM %s ORDER BY id`, quoteTableName(eventsTable, es.backend))

	rows, err := es.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []schema.InterviewEvent
	for rows.Next() {
		var (
			ev      schema.InterviewEvent
			ts      sqlTime
			score   sql.NullFloat64
			owner   sql.NullString
			posting sql.NullString
		)
		if err := rows.Scan(&ev.CandidateName, &ts, &ev.Interviewer, &ev.FeedbackFormType, &score,
			&ev.CandidateOrigin, &owner, &posting); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.InterviewTimestamp = ts.Time
		if score.Valid {
			ev.OverallScore = &score.Float64
		}
		if owner.Valid {
			ev.CandidateOwnerName = &owner.String
		}
		if posting.Valid {
			ev.PostingTitle = &posting.String
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// NaturalKeys returns the set of natural key hashes already persisted.
func (es *EventStoreImpl) NaturalKeys(ctx context.Context) (map[string]struct{}, error) {
	query := fmt.Sprintf("SELECT natural_key FROM %s", quoteTableName(eventsTable, es.backend))
	rows, err := es.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query natural keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan natural key: %w", err)
		}
		keys[strings.TrimSpace(key)] = struct{}{}
	}
	return keys, rows.Err()
}

// Ingest writes the events and then the upload record in one transaction.
// Nothing is written when no event is new.
func (es *EventStoreImpl) Ingest(ctx context.Context, upload schema.UploadRecord, events []schema.InterviewEvent, strict bool) (int, error) {
	es.mu.Lock()
	defer es.mu.Unlock()

	tx, err := es.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, es.unavailable(fmt.Errorf("failed to begin ingest transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, es.insertEventQuery())
	if err != nil {
		return 0, es.unavailable(fmt.Errorf("failed to prepare event insert: %w", err))
	}
	defer func() { _ = stmt.Close() }()

	inserted, conflicts := 0, 0
	for _, ev := range events {
		res, err := stmt.ExecContext(ctx,
			ev.KeyHash(),
			upload.ID,
			ev.CandidateName,
			timeArg(es.backend, ev.InterviewTimestamp),
			ev.Interviewer,
			ev.FeedbackFormType,
			ev.OverallScore,
			ev.CandidateOrigin,
			ev.CandidateOwnerName,
			ev.PostingTitle,
		)
		if err != nil {
			return 0, es.unavailable(fmt.Errorf("failed to insert event for %s: %w", ev.CandidateName, err))
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, es.unavailable(fmt.Errorf("failed to read affected rows: %w", err))
		}
		if affected == 0 {
			conflicts++
			continue
		}
		inserted++
	}

	if strict && conflicts > 0 {
		return 0, &contract.IngestConflictError{Conflicts: conflicts}
	}
	if inserted == 0 {
		return 0, nil
	}

	upload.RecordCount = inserted
	uploadQuery := fmt.Sprintf("INSERT INTO %s (id, filename, upload_timestamp, record_count, checksum) VALUES (%s)",
		quoteTableName(uploadsTable, es.backend), placeholders(es.backend, 5))
	if _, err := tx.ExecContext(ctx, uploadQuery, upload.ID, upload.Filename,
		timeArg(es.backend, upload.UploadTimestamp), upload.RecordCount, upload.Checksum); err != nil {
		return 0, es.unavailable(fmt.Errorf("failed to record upload %s: %w", upload.Filename, err))
	}

	if err := tx.Commit(); err != nil {
		return 0, es.unavailable(fmt.Errorf("failed to commit ingest: %w", err))
	}
	return inserted, nil
}

// unavailable marks a driver failure so callers can tell it from bad data.
func (es *EventStoreImpl) unavailable(err error) error {
	return &contract.StoreUnavailableError{Backend: string(es.backend), Err: err}
}

// CountEvents returns the number of persisted events.
func (es *EventStoreImpl) CountEvents(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(eventsTable, es.backend))
	if err := es.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

// ListUploads returns upload records, newest first.
func (es *EventStoreImpl) ListUploads(ctx context.Context) ([]schema.UploadRecord, error) {
	query := fmt.Sprintf("SELECT id, filename, upload_timestamp, record_count, checksum FROM %s ORDER BY upload_timestamp DESC, id",
		quoteTableName(uploadsTable, es.backend))
	rows, err := es.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var uploads []schema.UploadRecord
	for rows.Next() {
		var rec schema.UploadRecord
		var ts sqlTime
		if err := rows.Scan(&rec.ID, &rec.Filename, &ts, &rec.RecordCount, &rec.Checksum); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		rec.UploadTimestamp = ts.Time
		rec.Checksum = strings.TrimSpace(rec.Checksum)
		uploads = append(uploads, rec)
	}
	return uploads, rows.Err()
}

// DeleteUpload removes the upload records named filename, and optionally
// the events they inserted, in one transaction.
func (es *EventStoreImpl) DeleteUpload(ctx context.Context, filename string, purgeEvents bool) (schema.UploadDeletion, error) {
	es.mu.Lock()
	defer es.mu.Unlock()

	result := schema.UploadDeletion{Filename: filename}

	tx, err := es.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	uploads := quoteTableName(uploadsTable, es.backend)
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("SELECT id FROM %s WHERE filename = %s", uploads, placeholders(es.backend, 1)), filename)
	if err != nil {
		return result, fmt.Errorf("failed to look up uploads: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return result, fmt.Errorf("failed to scan upload id: %w", err)
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return result, err
	}
	if len(ids) == 0 {
		return result, fmt.Errorf("%w: %q", contract.ErrUploadNotFound, filename)
	}

	if purgeEvents {
		deleteEvents := fmt.Sprintf("DELETE FROM %s WHERE upload_id = %s", quoteTableName(eventsTable, es.backend), placeholders(es.backend, 1))
		for _, id := range ids {
			res, err := tx.ExecContext(ctx, deleteEvents, id)
			if err != nil {
				return result, fmt.Errorf("failed to delete events of upload %s: %w", id, err)
			}
			n, _ := res.RowsAffected()
			result.EventsDeleted += int(n)
		}
	}

	res, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE filename = %s", uploads, placeholders(es.backend, 1)), filename)
	if err != nil {
		return result, fmt.Errorf("failed to delete uploads: %w", err)
	}
	n, _ := res.RowsAffected()
	result.UploadsDeleted = int(n)

	if err := tx.Commit(); err != nil {
		return schema.UploadDeletion{Filename: filename}, fmt.Errorf("failed to commit delete: %w", err)
	}
	return result, nil
}

// Close closes the underlying DB connection.
func (es *EventStoreImpl) Close() error {
	if es.db != nil {
		return es.db.Close()
	}
	return nil
}

// GetStatus returns status information about the event store.
func (es *EventStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(es.backend),
		Connected:  es.db != nil,
		TableSizes: make(map[string]int64),
	}
	if es.db == nil {
		return status, nil
	}

	events := quoteTableName(eventsTable, es.backend)
	uploads := quoteTableName(uploadsTable, es.backend)

	if err := es.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", events)).Scan(&status.TotalRecords); err != nil {
		return status, fmt.Errorf("failed to count events: %w", err)
	}
	if err := es.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", uploads)).Scan(&status.TotalUploads); err != nil {
		return status, fmt.Errorf("failed to count uploads: %w", err)
	}
	status.TableSizes[eventsTable] = tableSizeBytes(es.db, es.backend, es.connStr, eventsTable, int64(status.TotalRecords)*256)
	status.TableSizes[uploadsTable] = tableSizeBytes(es.db, es.backend, es.connStr, uploadsTable, int64(status.TotalUploads)*128)

	if status.TotalUploads > 0 {
		var newest, oldest sqlTime
		row := es.db.QueryRow(fmt.Sprintf("SELECT MAX(upload_timestamp), MIN(upload_timestamp) FROM %s", uploads))
		if err := row.Scan(&newest, &oldest); err != nil {
			return status, fmt.Errorf("failed to get upload times: %w", err)
		}
		status.LastUploadTime, status.OldestUploadTime = newest.Time, oldest.Time
	}

	if status.TotalRecords > 0 {
		var newest, oldest sqlTime
		row := es.db.QueryRow(fmt.Sprintf("SELECT MAX(interview_date), MIN(interview_date) FROM %s", events))
		if err := row.Scan(&newest, &oldest); err != nil {
			return status, fmt.Errorf("failed to get interview range: %w", err)
		}
		status.NewestInterview, status.OldestInterview = newest.Time, oldest.Time
	}

	return status, nil
}

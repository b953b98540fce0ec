package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// MemoStore keeps serialized metric results keyed by a dataset fingerprint.
type MemoStore struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.CacheStore = &MemoStore{} // Compile-time check

// NewCacheStore opens the memo cache for the backend. The none backend
// yields a store that never hits and never writes.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (*MemoStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}
	if backend == schema.NoneBackend {
		return &MemoStore{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openDB(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open metric cache: %w", err)
	}

	if _, err := db.Exec(memoTableDDL(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &MemoStore{db: db, tableName: tableName, backend: backend, connStr: connStr}, nil
}

// memoTableDDL returns the CREATE TABLE statement for the backend.
func memoTableDDL(tableName string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			memo_key CHAR(64) PRIMARY KEY,
			memo_value LONGBLOB NOT NULL,
			memo_version INT NOT NULL,
			memo_timestamp BIGINT NOT NULL
		)`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			memo_key TEXT PRIMARY KEY,
			memo_value BYTEA NOT NULL,
			memo_version INTEGER NOT NULL,
			memo_timestamp BIGINT NOT NULL
		)`, quoted)
	default: // SQLite
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			memo_key TEXT PRIMARY KEY,
			memo_value BLOB NOT NULL,
			memo_version INTEGER NOT NULL,
			memo_timestamp INTEGER NOT NULL
		)`, quoted)
	}
}

// disabled reports whether the store is the no-op none backend.
func (ms *MemoStore) disabled() bool {
	return ms.backend == schema.NoneBackend || ms.db == nil
}

// Get returns the value, version and unix timestamp stored under key.
// A miss is reported as sql.ErrNoRows.
func (ms *MemoStore) Get(key string) ([]byte, int, int64, error) {
	if ms.disabled() {
		return nil, 0, 0, sql.ErrNoRows
	}

	query := fmt.Sprintf(`SELECT memo_value, memo_version, memo_timestamp FROM %s WHERE memo_key = %s`,
		quoteTableName(ms.tableName, ms.backend), placeholders(ms.backend, 1))

	var value []byte
	var version int
	var ts int64
	if err := ms.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces the entry under key.
func (ms *MemoStore) Set(key string, value []byte, version int, timestamp int64) error {
	if ms.disabled() {
		return nil
	}
	_, err := ms.db.Exec(ms.upsertQuery(), key, value, version, timestamp)
	return err
}

// upsertQuery returns the backend-specific UPSERT statement.
func (ms *MemoStore) upsertQuery() string {
	quoted := quoteTableName(ms.tableName, ms.backend)
	switch ms.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (memo_key, memo_value, memo_version, memo_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE memo_value = new.memo_value, memo_version = new.memo_version, memo_timestamp = new.memo_timestamp`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (memo_key, memo_value, memo_version, memo_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (memo_key) DO UPDATE SET memo_value = EXCLUDED.memo_value, memo_version = EXCLUDED.memo_version, memo_timestamp = EXCLUDED.memo_timestamp`, quoted)
	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (memo_key, memo_value, memo_version, memo_timestamp) VALUES (?, ?, ?, ?)`, quoted)
	}
}

// Purge removes every cached entry.
func (ms *MemoStore) Purge() error {
	if ms.disabled() {
		return nil
	}
	_, err := ms.db.Exec(fmt.Sprintf("DELETE FROM %s", quoteTableName(ms.tableName, ms.backend)))
	return err
}

// Close closes the underlying DB connection.
func (ms *MemoStore) Close() error {
	if ms.db != nil {
		return ms.db.Close()
	}
	return nil
}

// GetStatus returns status information about the cache store.
func (ms *MemoStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(ms.backend),
		Connected: ms.db != nil,
	}
	if ms.disabled() {
		return status, nil
	}

	quoted := quoteTableName(ms.tableName, ms.backend)
	if err := ms.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var newest, oldest int64
	row := ms.db.QueryRow(fmt.Sprintf("SELECT MAX(memo_timestamp), MIN(memo_timestamp) FROM %s", quoted))
	if err := row.Scan(&newest, &oldest); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(newest, 0)
	status.OldestEntryTime = time.Unix(oldest, 0)
	status.TableSizeBytes = tableSizeBytes(ms.db, ms.backend, ms.connStr, ms.tableName, int64(status.TotalEntries)*1000)

	return status, nil
}

// tableSizeBytes estimates the on-disk size of a table, returning fallback
// when the backend cannot tell.
func tableSizeBytes(db *sql.DB, backend schema.DatabaseBackend, connStr, tableName string, fallback int64) int64 {
	var size int64
	switch backend {
	case schema.SQLiteBackend:
		// Whole file size; SQLite has no cheap per-table figure.
		row := db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
		return size
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil || cfg.DBName == "" {
			return fallback
		}
		row := db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, tableName)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
		return size
	case schema.PostgreSQLBackend:
		if err := db.QueryRow("SELECT pg_total_relation_size($1)", tableName).Scan(&size); err != nil {
			return fallback
		}
		return size
	default:
		return fallback
	}
}

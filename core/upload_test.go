package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/internal/iocache"
	"github.com/huangsam/hirefunnel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const uploadHeader = "Candidate Name,Interview Date TZ,Interviewer,Feedback Form,Overall Score,Candidate Origin\n"

// sqliteManager serves a real event store in a temp dir and a mock cache
// that accepts purges.
func sqliteManager(t *testing.T) (*iocache.MockStoreManager, *iocache.MockCacheStore, contract.EventStore) {
	t.Helper()
	store, err := iocache.NewEventStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cache := &iocache.MockCacheStore{}
	cache.On("Purge").Return(nil).Maybe()

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetEventStore").Return(store)
	mgr.On("GetCacheStore").Return(cache).Maybe()
	return mgr, cache, store
}

func writeUpload(t *testing.T, name string, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(uploadHeader+strings.Join(rows, "\n")+"\n"), 0o644))
	return path
}

func TestIngestFileIdempotent(t *testing.T) {
	mgr, cache, store := sqliteManager(t)
	ctx := context.Background()
	path := writeUpload(t, "week2.csv",
		"Alice,01/08/24 10:00,RecruiterA,Recruiter Screen,4,Applied",
		"Alice,01/10/24 09:00,Sam Nadler,Onsite,4,Applied",
		"Alice,01/08/24 10:00,RecruiterA,Recruiter Screen,4,Applied",
	)

	first, err := IngestFile(ctx, testConfig(), mgr, path)
	require.NoError(t, err)
	assert.Equal(t, "week2.csv", first.Filename)
	assert.Equal(t, 3, first.RowsParsed)
	assert.Equal(t, 1, first.DuplicatesInBatch)
	assert.Equal(t, 2, first.Inserted)
	assert.Equal(t, 2, first.TotalRecords)
	assert.NotEmpty(t, first.UploadID)
	cache.AssertNumberOfCalls(t, "Purge", 1)

	second, err := IngestFile(ctx, testConfig(), mgr, path)
	require.NoError(t, err)
	assert.Equal(t, 2, second.AlreadyPersisted)
	assert.Zero(t, second.Inserted)
	assert.Empty(t, second.UploadID)
	assert.Equal(t, 2, second.TotalRecords)
	cache.AssertNumberOfCalls(t, "Purge", 1)

	uploads, err := store.ListUploads(ctx)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, 2, uploads[0].RecordCount)
	assert.Equal(t, first.UploadID, uploads[0].ID)
}

func TestIngestFileAddsOnlyNewRows(t *testing.T) {
	mgr, _, _ := sqliteManager(t)
	ctx := context.Background()

	_, err := IngestFile(ctx, testConfig(), mgr, writeUpload(t, "a.csv",
		"Bob,01/09/24 10:00,RecruiterA,Recruiter Screen,1,"))
	require.NoError(t, err)

	result, err := IngestFile(ctx, testConfig(), mgr, writeUpload(t, "b.csv",
		"Bob,01/09/24 10:00,RecruiterA,Recruiter Screen,1,",
		"Erin,01/09/24 15:00,RecruiterB,Recruiter Screen,,Sourced"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.AlreadyPersisted)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 2, result.TotalRecords)
}

func TestIngestFileRejectsBadInput(t *testing.T) {
	mgr, _, store := sqliteManager(t)
	ctx := context.Background()

	t.Run("missing column", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.csv")
		require.NoError(t, os.WriteFile(path, []byte("Candidate Name,Interviewer\nAlice,RecruiterA\n"), 0o644))
		_, err := IngestFile(ctx, testConfig(), mgr, path)
		var schemaErr *contract.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Contains(t, schemaErr.Missing, "interview_date")
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := IngestFile(ctx, testConfig(), mgr, writeUpload(t, "dates.csv",
			"Alice,someday,RecruiterA,Recruiter Screen,4,Applied"))
		var valErr *contract.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, 1, valErr.Row)
	})

	t.Run("oversized", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxUploadBytes = 10
		_, err := IngestFile(ctx, cfg, mgr, writeUpload(t, "big.csv",
			"Alice,01/08/24 10:00,RecruiterA,Recruiter Screen,4,Applied"))
		var valErr *contract.ValidationError
		require.ErrorAs(t, err, &valErr)
	})

	t.Run("unsupported type", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
		_, err := IngestFile(ctx, testConfig(), mgr, path)
		var valErr *contract.ValidationError
		require.ErrorAs(t, err, &valErr)
	})

	n, err := store.CountEvents(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIngestFileWithoutStore(t *testing.T) {
	_, err := IngestFile(context.Background(), testConfig(), nil, "whatever.csv")
	var unavailable *contract.StoreUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestIngestFileStrictConflict(t *testing.T) {
	path := writeUpload(t, "strict.csv", "Alice,01/08/24 10:00,RecruiterA,Recruiter Screen,4,Applied")

	store := &iocache.MockEventStore{}
	store.On("NaturalKeys", mock.Anything).Return(map[string]struct{}{}, nil)
	store.On("Ingest", mock.Anything, mock.Anything, mock.Anything, true).Return(0, &contract.IngestConflictError{Conflicts: 1})

	cfg := testConfig()
	cfg.Strict = true
	_, err := IngestFile(context.Background(), cfg, mockManager(store), path)

	var conflict *contract.IngestConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, conflict.Conflicts)
	store.AssertNotCalled(t, "CountEvents", mock.Anything)
}

func TestIngestFileNaturalKeysFailure(t *testing.T) {
	path := writeUpload(t, "keys.csv", "Alice,01/08/24 10:00,RecruiterA,Recruiter Screen,4,Applied")

	store := &iocache.MockEventStore{}
	store.On("NaturalKeys", mock.Anything).Return(nil, errors.New("database is locked"))

	_, err := IngestFile(context.Background(), testConfig(), mockManager(store), path)
	var unavailable *contract.StoreUnavailableError
	assert.ErrorAs(t, err, &unavailable)
	store.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestThenDashboard(t *testing.T) {
	mgr, _, _ := sqliteManager(t)
	ctx := context.Background()

	_, err := IngestFile(ctx, testConfig(), mgr, writeUpload(t, "funnel.csv",
		"Alice,01/08/24 10:00,RecruiterA,Recruiter Screen,4,Applied",
		"Alice,01/10/24 09:00,Sam Nadler,Onsite,4,Applied"))
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Weeks = 1
	d, err := BuildDashboard(ctx, cfg, mgr, schema.ScreensSection, schema.ConversionSection)
	require.NoError(t, err)

	assert.Equal(t, []schema.ScreenMetric{{Week: "2024-W02", Recruiter: "RecruiterA", TotalScreens: 1, Passes: 1, PassRate: 100}}, d.Screens)
	assert.Equal(t, []schema.ConversionMetric{{Week: "2024-W02", Recruiter: "RecruiterA", Screens: 1, Onsites: 1, Conversion: 100}}, d.Conversion)
}

func TestDeleteUpload(t *testing.T) {
	mgr, cache, store := sqliteManager(t)
	ctx := context.Background()

	_, err := IngestFile(ctx, testConfig(), mgr, writeUpload(t, "roll.csv",
		"Bob,01/09/24 10:00,RecruiterA,Recruiter Screen,1,"))
	require.NoError(t, err)

	uploads, err := ListUploads(ctx, mgr)
	require.NoError(t, err)
	require.Len(t, uploads, 1)

	result, err := DeleteUpload(ctx, mgr, "roll.csv", true)
	require.NoError(t, err)
	assert.Equal(t, schema.UploadDeletion{Filename: "roll.csv", UploadsDeleted: 1, EventsDeleted: 1}, result)
	cache.AssertNumberOfCalls(t, "Purge", 2)

	n, err := store.CountEvents(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = DeleteUpload(ctx, mgr, "roll.csv", false)
	assert.ErrorIs(t, err, contract.ErrUploadNotFound)

	_, err = DeleteUpload(ctx, mgr, "", false)
	var valErr *contract.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestParseSection(t *testing.T) {
	s, err := ParseSection("time-to-hire")
	require.NoError(t, err)
	assert.Equal(t, schema.TimeToHireSection, s)

	_, err = ParseSection("summary")
	assert.Error(t, err)
}

package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/hirefunnel/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveIngest(schema.IngestResult{
		RowsParsed:        5,
		DuplicatesInBatch: 1,
		AlreadyPersisted:  1,
		Inserted:          3,
		TotalRecords:      10,
	}, 20*time.Millisecond)
	r.ObserveIngest(schema.IngestResult{RowsParsed: 2, AlreadyPersisted: 2, TotalRecords: 10}, time.Millisecond)
	r.ObserveFailure(time.Millisecond)

	path := filepath.Join(t.TempDir(), "hirefunnel.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "hirefunnel_ingest_rows_parsed_total 7")
	assert.Contains(t, text, "hirefunnel_ingest_inserted_total 3")
	assert.Contains(t, text, "hirefunnel_ingest_already_persisted_total 3")
	assert.Contains(t, text, `hirefunnel_ingest_runs_total{result="inserted"} 1`)
	assert.Contains(t, text, `hirefunnel_ingest_runs_total{result="noop"} 1`)
	assert.Contains(t, text, `hirefunnel_ingest_runs_total{result="failed"} 1`)
	assert.Contains(t, text, "hirefunnel_store_records 10")
	assert.Contains(t, text, "hirefunnel_ingest_duration_seconds_count 3")
}

func TestRecorderOptions(t *testing.T) {
	registry := prometheus.NewRegistry()
	r := NewRecorder(WithNamespace("funnel"), WithRegistry(registry))
	assert.Same(t, registry, r.Registry())

	r.ObserveIngest(schema.IngestResult{Inserted: 1}, time.Millisecond)
	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "funnel_ingest_inserted_total")
}

func TestWriteTextfileEmptyPath(t *testing.T) {
	assert.NoError(t, NewRecorder().WriteTextfile(""))
}

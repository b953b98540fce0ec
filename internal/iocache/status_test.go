package iocache

import (
	"bytes"
	"testing"
	"time"

	"github.com/huangsam/hirefunnel/schema"
	"github.com/stretchr/testify/assert"
)

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	now := time.Now()
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalEntries:    1200,
		LastEntryTime:   now,
		OldestEntryTime: now.Add(-time.Hour),
		TableSizeBytes:  2048,
	})
	out := buf.String()
	assert.Contains(t, out, "Total Entries: 1,200")
	assert.Contains(t, out, "Table Size: 2.0 kB")
	assert.Contains(t, out, "Oldest Entry:")
}

func TestPrintStoreStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintStoreStatus(&buf, schema.StoreStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalRecords:    12,
		TotalUploads:    2,
		LastUploadTime:  time.Now(),
		OldestInterview: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		NewestInterview: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		TableSizes:      map[string]int64{uploadsTable: 4096, eventsTable: 8192},
	})
	out := buf.String()
	assert.Contains(t, out, "Total Records: 12")
	assert.Contains(t, out, "Interviews: 2024-01-08 to 2024-03-08")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(uploadsTable)), bytes.Index(buf.Bytes(), []byte(eventsTable)),
		"tables are listed in name order")
}

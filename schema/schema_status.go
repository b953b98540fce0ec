package schema

import "time"

// CacheStatus represents the status of the metric cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// StoreStatus represents the status of the event store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRecords     int              `json:"total_records"`
	TotalUploads     int              `json:"total_uploads"`
	LastUploadTime   time.Time        `json:"last_upload_time"`
	OldestUploadTime time.Time        `json:"oldest_upload_time"`
	OldestInterview  time.Time        `json:"oldest_interview"`
	NewestInterview  time.Time        `json:"newest_interview"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

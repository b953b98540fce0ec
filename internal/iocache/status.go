package iocache

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/hirefunnel/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %s\n", humanize.Comma(int64(status.TotalEntries)))
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s (%s)\n", status.LastEntryTime.Format(statusTimeFormat), humanize.Time(status.LastEntryTime))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s (%s)\n", status.OldestEntryTime.Format(statusTimeFormat), humanize.Time(status.OldestEntryTime))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %s\n", humanize.Bytes(uint64(max(status.TableSizeBytes, 0))))
}

// PrintStoreStatus prints event store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Records: %s\n", humanize.Comma(int64(status.TotalRecords)))
	_, _ = fmt.Fprintf(w, "Total Uploads: %s\n", humanize.Comma(int64(status.TotalUploads)))
	if status.TotalUploads > 0 {
		_, _ = fmt.Fprintf(w, "Last Upload: %s (%s)\n", status.LastUploadTime.Format(statusTimeFormat), humanize.Time(status.LastUploadTime))
		_, _ = fmt.Fprintf(w, "Oldest Upload: %s (%s)\n", status.OldestUploadTime.Format(statusTimeFormat), humanize.Time(status.OldestUploadTime))
	}
	if status.TotalRecords > 0 {
		_, _ = fmt.Fprintf(w, "Interviews: %s to %s\n", status.OldestInterview.Format("2006-01-02"), status.NewestInterview.Format("2006-01-02"))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", table, humanize.Bytes(uint64(max(status.TableSizes[table], 0))))
	}
}

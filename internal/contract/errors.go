package contract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUploadNotFound is returned when no upload matches a filename.
var ErrUploadNotFound = errors.New("upload not found")

// SchemaError reports required columns that are missing from an upload.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// ValidationError reports data that cannot be accepted. Row is the 1-based
// data row that failed, or 0 when the problem is not tied to a row.
type ValidationError struct {
	Reason string
	Row    int
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return e.Reason
}

// IngestConflictError reports natural-key collisions found at insert time in strict mode.
type IngestConflictError struct {
	Conflicts int
}

func (e *IngestConflictError) Error() string {
	return fmt.Sprintf("%d record(s) collided with existing natural keys; batch rolled back", e.Conflicts)
}

// StoreUnavailableError wraps a connectivity or driver failure.
type StoreUnavailableError struct {
	Backend string
	Err     error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("%s store unavailable: %v", e.Backend, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

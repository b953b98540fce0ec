package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/xuri/excelize/v2"
)

// Table is an uploaded file read into a header and data rows.
type Table struct {
	Filename string
	Checksum string // hex sha256 of the raw bytes
	Header   []string
	Rows     [][]string
}

// ReadFile reads a .csv or .xlsx upload no larger than maxBytes.
func ReadFile(path string, maxBytes int64) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read upload: %w", err)
	}
	if info.IsDir() {
		return nil, &contract.ValidationError{Reason: fmt.Sprintf("%s is a directory", path)}
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, &contract.ValidationError{Reason: fmt.Sprintf("upload is %s, above the %s limit",
			humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(maxBytes)))}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read upload: %w", err)
	}
	return ReadBytes(filepath.Base(path), data)
}

// ReadBytes parses upload content, choosing the format by file extension.
func ReadBytes(filename string, data []byte) (*Table, error) {
	var (
		records [][]string
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		records, err = readCSV(bytes.NewReader(data))
	case ".xlsx":
		records, err = readXLSX(bytes.NewReader(data))
	default:
		return nil, &contract.ValidationError{Reason: fmt.Sprintf("unsupported file type %q: use .csv or .xlsx", ext)}
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &contract.ValidationError{Reason: "empty dataset"}
	}

	return &Table{
		Filename: filename,
		Checksum: fmt.Sprintf("%x", sha256.Sum256(data)),
		Header:   records[0],
		Rows:     records[1:],
	}, nil
}

// readCSV reads every record; rows may have differing lengths.
func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &contract.ValidationError{Reason: fmt.Sprintf("unreadable CSV: %v", err)}
	}
	return records, nil
}

// readXLSX reads the rows of the first sheet. Cells are read raw so date
// cells arrive as serial numbers instead of display-formatted text.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &contract.ValidationError{Reason: fmt.Sprintf("unreadable workbook: %v", err)}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &contract.ValidationError{Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

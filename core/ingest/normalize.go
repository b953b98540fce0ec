// Package ingest turns uploaded tables into interview events and decides
// which of them are new.
package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
	"github.com/xuri/excelize/v2"
)

// Canonical field names.
const (
	FieldCandidateName      = "candidate_name"
	FieldInterviewDate      = "interview_date"
	FieldInterviewer        = "interviewer"
	FieldFeedbackForm       = "feedback_form"
	FieldOverallScore       = "overall_score"
	FieldCandidateOrigin    = "candidate_origin"
	FieldCandidateOwnerName = "candidate_owner_name"
	FieldPostingTitle       = "posting_title"
)

// fieldOrder is the column order used when writing events back out.
var fieldOrder = []string{
	FieldCandidateName,
	FieldInterviewDate,
	FieldInterviewer,
	FieldFeedbackForm,
	FieldOverallScore,
	FieldCandidateOrigin,
	FieldCandidateOwnerName,
	FieldPostingTitle,
}

// RequiredFields must be present in every upload.
var RequiredFields = []string{
	FieldInterviewer,
	FieldFeedbackForm,
	FieldOverallScore,
	FieldInterviewDate,
	FieldCandidateName,
	FieldCandidateOrigin,
}

// externalNames maps canonical names to the ATS export column names.
var externalNames = map[string]string{
	FieldCandidateName:      "Candidate Name",
	FieldInterviewDate:      "Interview Date TZ",
	FieldInterviewer:        "Interviewer",
	FieldFeedbackForm:       "Feedback Form",
	FieldOverallScore:       "Overall Score",
	FieldCandidateOrigin:    "Candidate Origin",
	FieldCandidateOwnerName: "Candidate Owner Name",
	FieldPostingTitle:       "Posting Title",
}

// canonicalNames maps lowercased external and canonical spellings to canonical names.
var canonicalNames = func() map[string]string {
	m := make(map[string]string, 2*len(externalNames))
	for canonical, external := range externalNames {
		m[canonical] = canonical
		m[strings.ToLower(external)] = canonical
	}
	return m
}()

// denormalizeLayout is the timestamp layout Denormalize writes. Normalize
// always accepts it in addition to the configured layouts.
const denormalizeLayout = time.RFC3339

// maxExcelSerial is the serial day number of 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958465

// ExternalName returns the display column name for a canonical field.
func ExternalName(field string) string {
	if name, ok := externalNames[field]; ok {
		return name
	}
	return field
}

// CanonicalField resolves a header cell in either spelling to its canonical
// field name. It returns "" for unknown columns.
func CanonicalField(column string) string {
	return canonicalNames[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(column, "\ufeff")))]
}

// ExternalHeader returns the display header in write order.
func ExternalHeader() []string {
	header := make([]string, len(fieldOrder))
	for i, f := range fieldOrder {
		header[i] = externalNames[f]
	}
	return header
}

// Validate checks that the header carries every required field and that
// there is at least one data row.
func Validate(header []string, rows [][]string) error {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		if f := CanonicalField(col); f != "" {
			present[f] = true
		}
	}
	var missing []string
	for _, f := range RequiredFields {
		if !present[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &contract.SchemaError{Missing: missing}
	}
	if len(rows) == 0 {
		return &contract.ValidationError{Reason: "empty dataset"}
	}
	return nil
}

// Normalizer converts rows of one header into interview events.
type Normalizer struct {
	index   map[string]int
	layouts []string
}

// NewNormalizer resolves the header once. It fails with a SchemaError when a
// required field is absent.
func NewNormalizer(header []string, layouts []string) (*Normalizer, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		f := CanonicalField(col)
		if f == "" {
			continue
		}
		if _, seen := index[f]; !seen {
			index[f] = i
		}
	}
	var missing []string
	for _, f := range RequiredFields {
		if _, ok := index[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &contract.SchemaError{Missing: missing}
	}
	if len(layouts) == 0 {
		layouts = contract.DefaultDateLayouts
	}
	return &Normalizer{index: index, layouts: layouts}, nil
}

// field returns the trimmed cell for a canonical field, or "" when absent.
func (n *Normalizer) field(row []string, name string) string {
	i, ok := n.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Normalize converts one row. rowNum is the 1-based data row used in errors.
func (n *Normalizer) Normalize(row []string, rowNum int) (schema.InterviewEvent, error) {
	ev := schema.InterviewEvent{
		CandidateName:    n.field(row, FieldCandidateName),
		Interviewer:      n.field(row, FieldInterviewer),
		FeedbackFormType: n.field(row, FieldFeedbackForm),
		CandidateOrigin:  n.field(row, FieldCandidateOrigin),
		OverallScore:     ParseScore(n.field(row, FieldOverallScore)),
	}
	if ev.CandidateName == "" {
		return ev, &contract.ValidationError{Reason: "candidate name is empty", Row: rowNum}
	}

	raw := n.field(row, FieldInterviewDate)
	ts, err := ParseInterviewDate(raw, n.layouts)
	if err != nil {
		return ev, &contract.ValidationError{Reason: fmt.Sprintf("unparseable interview date %q", raw), Row: rowNum}
	}
	ev.InterviewTimestamp = ts

	if owner := n.field(row, FieldCandidateOwnerName); owner != "" {
		ev.CandidateOwnerName = &owner
	}
	if posting := n.field(row, FieldPostingTitle); posting != "" {
		ev.PostingTitle = &posting
	}
	return ev, nil
}

// Normalize converts a single row against header.
func Normalize(header, row []string, layouts []string) (schema.InterviewEvent, error) {
	n, err := NewNormalizer(header, layouts)
	if err != nil {
		return schema.InterviewEvent{}, err
	}
	return n.Normalize(row, 1)
}

// ParseEvents validates the table and converts every row. The first bad
// row fails the whole batch.
func ParseEvents(header []string, rows [][]string, layouts []string) ([]schema.InterviewEvent, error) {
	if err := Validate(header, rows); err != nil {
		return nil, err
	}
	n, err := NewNormalizer(header, layouts)
	if err != nil {
		return nil, err
	}
	events := make([]schema.InterviewEvent, 0, len(rows))
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		ev, err := n.Normalize(row, i+1)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if len(events) == 0 {
		return nil, &contract.ValidationError{Reason: "empty dataset"}
	}
	return events, nil
}

// Denormalize writes an event as a row in ExternalHeader order.
func Denormalize(ev schema.InterviewEvent) []string {
	row := make([]string, len(fieldOrder))
	row[0] = ev.CandidateName
	row[1] = ev.InterviewTimestamp.UTC().Format(denormalizeLayout)
	row[2] = ev.Interviewer
	row[3] = ev.FeedbackFormType
	if ev.OverallScore != nil {
		row[4] = strconv.FormatFloat(*ev.OverallScore, 'f', -1, 64)
	}
	row[5] = ev.CandidateOrigin
	if ev.CandidateOwnerName != nil {
		row[6] = *ev.CandidateOwnerName
	}
	if ev.PostingTitle != nil {
		row[7] = *ev.PostingTitle
	}
	return row
}

// ParseInterviewDate tries each layout in order (the defaults when none are
// given), then RFC3339, then an Excel serial date, and returns the time in UTC.
func ParseInterviewDate(raw string, layouts []string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(layouts) == 0 {
		layouts = contract.DefaultDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	if t, err := time.Parse(denormalizeLayout, raw); err == nil {
		return t.UTC(), nil
	}
	// Workbook date cells are read raw as serial day numbers.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Round(time.Second).UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches %q", raw)
}

// ParseScore returns nil for empty, NaN or non-numeric scores.
func ParseScore(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

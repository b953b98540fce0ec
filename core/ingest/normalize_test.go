package ingest

import (
	"testing"
	"time"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

var atsHeader = []string{
	"Candidate Name", "Interview Date TZ", "Interviewer", "Feedback Form",
	"Overall Score", "Candidate Origin", "Candidate Owner Name", "Posting Title",
}

func TestCanonicalField(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"Candidate Name", FieldCandidateName},
		{"candidate_name", FieldCandidateName},
		{"  interview date tz ", FieldInterviewDate},
		{"\ufeffCandidate Name", FieldCandidateName},
		{"Posting Title", FieldPostingTitle},
		{"Notes", ""},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalField(tt.column))
		})
	}
	assert.Equal(t, "Interview Date TZ", ExternalName(FieldInterviewDate))
	assert.Equal(t, "custom", ExternalName("custom"))
}

func TestValidate(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		err := Validate([]string{"Candidate Name", "Interviewer"}, [][]string{{"a", "b"}})
		var schemaErr *contract.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.ElementsMatch(t, []string{FieldFeedbackForm, FieldOverallScore, FieldInterviewDate, FieldCandidateOrigin}, schemaErr.Missing)
	})

	t.Run("empty dataset", func(t *testing.T) {
		err := Validate(atsHeader, nil)
		var valErr *contract.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "empty dataset", valErr.Reason)
	})

	t.Run("optional columns may be absent", func(t *testing.T) {
		assert.NoError(t, Validate(atsHeader[:6], [][]string{{"x"}}))
	})

	t.Run("canonical header accepted", func(t *testing.T) {
		header := []string{"candidate_name", "interview_date", "interviewer", "feedback_form", "overall_score", "candidate_origin"}
		assert.NoError(t, Validate(header, [][]string{{"x"}}))
	})
}

func TestNormalize(t *testing.T) {
	row := []string{"Alice", "01/08/24 10:00", "RecruiterA", "Recruiter Screen", "4", "Applied", "", "Backend Engineer"}
	ev, err := Normalize(atsHeader, row, nil)
	require.NoError(t, err)

	assert.Equal(t, "Alice", ev.CandidateName)
	assert.Equal(t, time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), ev.InterviewTimestamp)
	assert.Equal(t, "RecruiterA", ev.Interviewer)
	require.NotNil(t, ev.OverallScore)
	assert.Equal(t, 4.0, *ev.OverallScore)
	assert.Nil(t, ev.CandidateOwnerName, "blank optional field becomes null")
	require.NotNil(t, ev.PostingTitle)
	assert.Equal(t, "Backend Engineer", *ev.PostingTitle)
}

func TestNormalizeErrors(t *testing.T) {
	n, err := NewNormalizer(atsHeader, contract.DefaultDateLayouts)
	require.NoError(t, err)

	_, err = n.Normalize([]string{"Alice", "next tuesday", "R", "Recruiter Screen", "4", "Applied"}, 7)
	var valErr *contract.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, 7, valErr.Row)
	assert.Contains(t, valErr.Error(), "row 7")

	_, err = n.Normalize([]string{" ", "01/08/24 10:00", "R", "Recruiter Screen", "4", "Applied"}, 2)
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Reason, "candidate name")

	_, err = NewNormalizer([]string{"Interviewer"}, nil)
	var schemaErr *contract.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{"4", ptr(4.0)},
		{" 3.5 ", ptr(3.5)},
		{"", nil},
		{"nan", nil},
		{"NaN", nil},
		{"strong yes", nil},
		{"inf", nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScore(tt.raw))
		})
	}
}

func TestParseInterviewDate(t *testing.T) {
	want := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	morning := time.Date(2024, 1, 8, 9, 5, 0, 0, time.UTC)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"01/08/24 10:00", want},
		{"1/8/24 10:00", want},
		{"01/08/24 9:05", morning},
		{"1/8/24 9:05", morning},
		{"1/8/2024 10:00", want},
		{"01/08/2024 09:05", morning},
		{"2024-01-08 10:00", want},
		{"45299.416666666664", want},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseInterviewDate(tt.raw, contract.DefaultDateLayouts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := ParseInterviewDate("1/8/24 9:05", nil)
	require.NoError(t, err, "no layouts means the defaults")
	assert.Equal(t, morning, got)

	got, err = ParseInterviewDate("2024-01-08T11:00:00+01:00", []string{"2006-01-02"})
	require.NoError(t, err, "RFC3339 is always accepted")
	assert.Equal(t, want, got)

	_, err = ParseInterviewDate("08.01.2024", []string{"2006-01-02"})
	assert.Error(t, err)
	_, err = ParseInterviewDate("", contract.DefaultDateLayouts)
	assert.Error(t, err)
	_, err = ParseInterviewDate("20240108", contract.DefaultDateLayouts)
	assert.Error(t, err, "numbers past the last serial day are not dates")
	_, err = ParseInterviewDate("-3", contract.DefaultDateLayouts)
	assert.Error(t, err)
}

func TestParseEventsUnpaddedDates(t *testing.T) {
	rows := [][]string{
		{"Alice", "1/8/24 9:05", "RecruiterA", "Recruiter Screen", "4", "Applied"},
		{"Bob", "1/9/24 10:00", "RecruiterB", "Recruiter Screen", "2", "Sourced"},
	}
	events, err := ParseEvents(atsHeader[:6], rows, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, time.Date(2024, 1, 8, 9, 5, 0, 0, time.UTC), events[0].InterviewTimestamp)
	assert.Equal(t, time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC), events[1].InterviewTimestamp)
}

func TestParseEvents(t *testing.T) {
	rows := [][]string{
		{"Alice", "01/08/24 10:00", "RecruiterA", "Recruiter Screen", "4", "Applied"},
		{"", "", "", "", "", ""},
		{"Bob", "01/09/24 11:30", "RecruiterB", "Recruiter Screen", "", "Referral"},
	}
	events, err := ParseEvents(atsHeader[:6], rows, nil)
	require.NoError(t, err)
	require.Len(t, events, 2, "blank rows are skipped")
	assert.Nil(t, events[1].OverallScore)

	_, err = ParseEvents(atsHeader[:6], [][]string{{"", "", "", "", "", ""}}, nil)
	var valErr *contract.ValidationError
	assert.ErrorAs(t, err, &valErr)

	rows = append(rows, []string{"Cy", "soon", "R", "Recruiter Screen", "1", "Applied"})
	_, err = ParseEvents(atsHeader[:6], rows, nil)
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, 4, valErr.Row, "one bad date fails the batch")
}

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	events := []schema.InterviewEvent{
		{
			CandidateName:      "Alice Ng",
			InterviewTimestamp: time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC),
			Interviewer:        "RecruiterA",
			FeedbackFormType:   "Recruiter Screen",
			OverallScore:       ptr(3.25),
			CandidateOrigin:    "Applied",
			CandidateOwnerName: ptr("RecruiterA"),
			PostingTitle:       ptr("Data Engineer"),
		},
		{
			CandidateName:      "Bo",
			InterviewTimestamp: time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC),
			Interviewer:        "Sam Nadler",
			FeedbackFormType:   "Onsite",
			CandidateOrigin:    "",
		},
	}
	header := ExternalHeader()
	for _, want := range events {
		got, err := Normalize(header, Denormalize(want), contract.DefaultDateLayouts)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

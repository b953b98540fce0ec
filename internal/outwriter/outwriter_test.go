package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testConfig(output schema.OutputMode, outputFile string) *contract.Config {
	return &contract.Config{
		Output:       output,
		OutputFile:   outputFile,
		Precision:    1,
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}
}

func testDashboard() *schema.Dashboard {
	star := "Avery Stone"
	d := &schema.Dashboard{
		GeneratedAt:   time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC),
		Weeks:         2,
		Period:        schema.AllTimePeriod,
		WeekKeys:      []string{"2024-W02", "2024-W03"},
		LatestWeek:    "2024-W03",
		WeekOf:        "January 15, 2024",
		TotalRecords:  42,
		StarRecruiter: &star,
		Summary: []schema.SummaryCard{
			{Label: "Total Screens", Value: 5, Previous: 3, Delta: 2},
			{Label: "Average Pass Rate", Value: 60, Previous: 70, Delta: -10, Percent: true},
		},
		Recruiters: []schema.RecruiterCard{
			{Recruiter: "Avery Stone", Emoji: "⭐", Star: true, Screens: 3, ScreensDelta: 1, PassRate: 66.7, PassRateDelta: -8.3},
		},
		Screens: []schema.ScreenMetric{
			{Week: "2024-W03", Recruiter: "Avery Stone", TotalScreens: 3, Passes: 2, PassRate: 66.7},
		},
		Detail: []schema.DetailedMetric{
			{Week: "2024-W03", Recruiter: "Avery Stone", TotalScreens: 3, Passes: 2, PassRate: 66.7, Onsites: 1, Conversion: 33.3},
		},
	}
	for _, s := range schema.AllSections {
		status := schema.SectionStatus{Section: s, Available: true}
		if s == schema.TimeToHireSection {
			status = schema.SectionStatus{Section: s, Reason: "boom"}
		}
		d.Sections = append(d.Sections, status)
	}
	return d
}

func TestSectionTable(t *testing.T) {
	d := testDashboard()

	text := sectionTable(d, schema.ScreensSection, textOpts(testConfig(schema.TextOut, "")))
	assert.Equal(t, "Recruiter Screens", text.Title)
	require.Len(t, text.Rows, 1)
	assert.Equal(t, []string{"2024-W03", "Avery Stone", "3", "2", "66.7%", contract.HealthyValue}, text.Rows[0])

	plain := sectionTable(d, schema.DetailSection, plainOpts(testConfig(schema.CSVOut, "")))
	assert.Equal(t, []string{"2024-W03", "Avery Stone", "3", "2", "66.7", "1", "33.3"}, plain.Rows[0])

	summary := sectionTable(d, schema.SummarySection, plainOpts(testConfig(schema.CSVOut, "")))
	assert.Equal(t, []string{"Total Screens", "5.0", "3.0", "+2.0"}, summary.Rows[0])
	assert.Equal(t, []string{"Average Pass Rate", "60.0", "70.0", "-10.0"}, summary.Rows[1])
}

func TestSectionTableTruncatesNames(t *testing.T) {
	d := testDashboard()
	d.Screens[0].Recruiter = "Maximiliana Featherstonehaugh-Worthington"

	o := textOpts(testConfig(schema.TextOut, ""))
	o.nameWidth = 12
	row := sectionTable(d, schema.ScreensSection, o).Rows[0]
	assert.Equal(t, "Maximilia...", row[1])
}

func TestWriteDashboardText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDashboardText(&buf, testDashboard(), testConfig(schema.TextOut, ""), 5*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Recruitment Funnel Dashboard")
	assert.Contains(t, out, "Week of January 15, 2024 (2024-W03)")
	assert.Contains(t, out, "Total records: 42")
	assert.Contains(t, out, "Star recruiter: Avery Stone")
	assert.Contains(t, out, "Week Summary")
	assert.Contains(t, out, "⭐")
	assert.Contains(t, out, "Time to Onsite unavailable: boom")
	assert.Contains(t, out, "No data for the selected weeks.")
}

func TestWriteDashboardPeriodComparison(t *testing.T) {
	d := testDashboard()
	d.PeriodComparison = &schema.PeriodComparison{
		Current:         schema.ThisWeekPeriod,
		Previous:        schema.LastWeekPeriod,
		CurrentMetrics:  schema.PeriodMetrics{TotalScreens: 4},
		PreviousMetrics: schema.PeriodMetrics{TotalScreens: 2},
		ScreensChange:   100,
	}
	var buf bytes.Buffer
	require.NoError(t, writeDashboardText(&buf, d, testConfig(schema.TextOut, ""), time.Millisecond))
	assert.Contains(t, buf.String(), "this-week vs last-week")
	assert.Contains(t, buf.String(), "+100.0%")
}

func TestWriteDashboardJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.json")
	require.NoError(t, WriteDashboard(testDashboard(), testConfig(schema.JSONOut, path), time.Millisecond))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got schema.Dashboard
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 42, got.TotalRecords)
	require.NotNil(t, got.StarRecruiter)
	assert.Equal(t, "Avery Stone", *got.StarRecruiter)
	assert.False(t, got.SectionAvailable(schema.TimeToHireSection))
}

func TestWriteDashboardCSVIsDetail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.csv")
	require.NoError(t, WriteDashboard(testDashboard(), testConfig(schema.CSVOut, path), time.Millisecond))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Week", "Recruiter", "Screens", "Passes", "Pass Rate", "Onsites", "Conversion"}, records[0])
}

func TestWriteDashboardParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detail.parquet")
	require.NoError(t, WriteDashboard(testDashboard(), testConfig(schema.ParquetOut, path), time.Millisecond))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteDashboardWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.xlsx")
	require.NoError(t, WriteDashboard(testDashboard(), testConfig(schema.XLSXOut, path), time.Millisecond))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	assert.Equal(t, summarySheet, sheets[0])
	assert.Contains(t, sheets, "Recruiter Screens")
	assert.NotContains(t, sheets, "Time to Onsite")

	title, err := f.GetCellValue(summarySheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Recruitment Funnel Dashboard", title)

	rows, err := f.GetRows("Recruiter Screens")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2024-W03", "Avery Stone", "3", "2", "66.7", contract.HealthyValue}, rows[2])
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "screens.json")
		require.NoError(t, WriteReport(testDashboard(), schema.ScreensSection, testConfig(schema.JSONOut, path)))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got struct {
			Section string                `json:"section"`
			Rows    []schema.ScreenMetric `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "screens", got.Section)
		assert.Len(t, got.Rows, 1)
	})

	t.Run("text", func(t *testing.T) {
		path := filepath.Join(dir, "quality.txt")
		require.NoError(t, WriteReport(testDashboard(), schema.TimeToHireSection, testConfig(schema.TextOut, path)))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "unavailable: boom")
	})

	t.Run("xlsx", func(t *testing.T) {
		path := filepath.Join(dir, "detail.xlsx")
		require.NoError(t, WriteReport(testDashboard(), schema.DetailSection, testConfig(schema.XLSXOut, path)))
		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.Equal(t, []string{"Detailed Metrics"}, f.GetSheetList())
	})

	t.Run("parquet only for detail", func(t *testing.T) {
		err := WriteReport(testDashboard(), schema.ScreensSection, testConfig(schema.ParquetOut, filepath.Join(dir, "x.parquet")))
		var vErr *contract.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func TestWriteUploads(t *testing.T) {
	uploads := []schema.UploadRecord{
		{ID: "u-2", Filename: "week3.csv", UploadTimestamp: time.Now().Add(-time.Hour), RecordCount: 1200, Checksum: "abcdef0123456789"},
		{ID: "u-1", Filename: "week2.csv", UploadTimestamp: time.Now().Add(-48 * time.Hour), RecordCount: 3, Checksum: "ff"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeUploadsText(&buf, uploads, testConfig(schema.TextOut, "")))
	out := buf.String()
	assert.Contains(t, out, "week3.csv")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "abcdef012345")
	assert.NotContains(t, out, "abcdef0123456789")
	assert.Contains(t, out, "2 uploads, 1,203 records inserted")

	buf.Reset()
	require.NoError(t, writeUploadsText(&buf, nil, testConfig(schema.TextOut, "")))
	assert.Equal(t, "No uploads yet.\n", buf.String())

	path := filepath.Join(t.TempDir(), "uploads.csv")
	require.NoError(t, WriteUploads(uploads, testConfig(schema.CSVOut, path)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id,filename,upload_timestamp,record_count,checksum")
}

func TestWriteIngestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeIngestText(&buf, schema.IngestResult{
		UploadID:          "u-1",
		Filename:          "week3.csv",
		RowsParsed:        10,
		DuplicatesInBatch: 1,
		AlreadyPersisted:  2,
		Inserted:          7,
		TotalRecords:      1507,
	}))
	out := buf.String()
	assert.Contains(t, out, "Ingested 7 new records from week3.csv")
	assert.Contains(t, out, "Total records: 1,507")
	assert.NotContains(t, out, "Skipped on conflict")

	buf.Reset()
	require.NoError(t, writeIngestText(&buf, schema.IngestResult{Filename: "week3.csv", RowsParsed: 10, AlreadyPersisted: 10, TotalRecords: 1507}))
	assert.Contains(t, buf.String(), "No new records in week3.csv")
}

func TestMaxNameWidth(t *testing.T) {
	assert.Equal(t, 12, maxNameWidth(40))
	assert.Equal(t, 30, maxNameWidth(100))
	assert.Equal(t, 40, maxNameWidth(300))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Onsites by Recruiter", sheetName(schema.OnsitesByRecruiterSection))
	assert.LessOrEqual(t, len(sheetName(schema.Section("a-very-long-section-name-that-keeps-going"))), 31)
}

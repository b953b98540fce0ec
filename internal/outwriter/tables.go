package outwriter

import (
	"fmt"
	"strconv"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// table is a titled grid of display strings shared by the text, CSV and
// workbook writers.
type table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// renderOpts controls how numbers and names are rendered into cells.
type renderOpts struct {
	fmtFloat  func(float64) string
	fmtPct    func(float64) string
	colors    bool
	nameWidth int // 0 disables truncation
}

// textOpts renders for a terminal table.
func textOpts(cfg *contract.Config) renderOpts {
	fmtFloat, fmtPct := createFormatters(cfg.Precision)
	return renderOpts{fmtFloat: fmtFloat, fmtPct: fmtPct, colors: cfg.UseColors, nameWidth: maxNameWidth(cfg.Width)}
}

// plainOpts renders for machine-readable output: no colors, no truncation
// and no percent signs.
func plainOpts(cfg *contract.Config) renderOpts {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return renderOpts{fmtFloat: fmtFloat, fmtPct: fmtFloat}
}

func (o renderOpts) name(s string) string {
	if o.nameWidth <= 0 {
		return s
	}
	return contract.TruncateName(s, o.nameWidth)
}

func (o renderOpts) label(rate float64) string {
	return contract.GetLabel(rate, o.colors)
}

// sectionTitles are the human headings of each section.
var sectionTitles = map[schema.Section]string{
	schema.ScreensSection:            "Recruiter Screens",
	schema.OnsitesSection:            "Onsite Volume",
	schema.ConversionSection:         "Onsite Conversion",
	schema.OnsitesByRecruiterSection: "Onsites by Recruiter",
	schema.SourcesSection:            "Source Breakdown",
	schema.TimeToHireSection:         "Time to Onsite",
	schema.QualitySection:            "Screen Quality",
	schema.DetailSection:             "Detailed Metrics",
	schema.LastWeekSection:           "Last Week Performance",
	schema.SummarySection:            "Week Summary",
}

// sectionTable builds the table of one dashboard section.
func sectionTable(d *schema.Dashboard, s schema.Section, o renderOpts) table {
	t := table{Title: sectionTitles[s]}
	itoa := strconv.Itoa

	switch s {
	case schema.ScreensSection:
		t.Header = []string{"Week", "Recruiter", "Screens", "Passes", "Pass Rate", "Label"}
		for _, r := range d.Screens {
			t.Rows = append(t.Rows, []string{r.Week, o.name(r.Recruiter), itoa(r.TotalScreens), itoa(r.Passes), o.fmtPct(r.PassRate), o.label(r.PassRate)})
		}
	case schema.OnsitesSection:
		t.Header = []string{"Week", "Interviewer", "Candidates"}
		for _, r := range d.Onsites {
			t.Rows = append(t.Rows, []string{r.Week, o.name(r.Interviewer), itoa(r.Candidates)})
		}
	case schema.ConversionSection:
		t.Header = []string{"Week", "Recruiter", "Screens", "Onsites", "Conversion"}
		for _, r := range d.Conversion {
			t.Rows = append(t.Rows, []string{r.Week, o.name(r.Recruiter), itoa(r.Screens), itoa(r.Onsites), o.fmtPct(r.Conversion)})
		}
	case schema.OnsitesByRecruiterSection:
		t.Header = []string{"Week", "Recruiter", "Onsites"}
		for _, r := range d.OnsitesByRecruiter {
			t.Rows = append(t.Rows, []string{r.Week, o.name(r.Recruiter), itoa(r.Onsites)})
		}
	case schema.SourcesSection:
		t.Header = []string{"Week", "Applied", "Sourced", "Referred", "Unknown", "Total"}
		for _, r := range d.Sources {
			t.Rows = append(t.Rows, []string{r.Week, itoa(r.Applied), itoa(r.Sourced), itoa(r.Referred), itoa(r.Unknown), itoa(r.Total)})
		}
	case schema.TimeToHireSection:
		t.Header = []string{"Week", "Recruiter", "Candidate", "Days"}
		for _, r := range d.TimeToHire {
			t.Rows = append(t.Rows, []string{r.Week, o.name(r.Recruiter), o.name(r.Candidate), o.fmtFloat(r.Days)})
		}
	case schema.QualitySection:
		t.Header = []string{"Recruiter", "Scored Screens", "High Scores", "Quality Rate", "Label"}
		for _, r := range d.Quality {
			t.Rows = append(t.Rows, []string{o.name(r.Recruiter), itoa(r.ScoredScreens), itoa(r.HighScores), o.fmtPct(r.QualityRate), o.label(r.QualityRate)})
		}
	case schema.DetailSection:
		t.Header = []string{"Week", "Recruiter", "Screens", "Passes", "Pass Rate", "Onsites", "Conversion"}
		for _, r := range d.Detail {
			t.Rows = append(t.Rows, []string{r.Week, o.name(r.Recruiter), itoa(r.TotalScreens), itoa(r.Passes), o.fmtPct(r.PassRate), itoa(r.Onsites), o.fmtPct(r.Conversion)})
		}
	case schema.LastWeekSection:
		t.Header = []string{"Recruiter", "Screens", "Screen Pass Rate", "Onsites", "Onsite Pass Rate"}
		for _, r := range d.LastWeek {
			t.Rows = append(t.Rows, []string{o.name(r.Recruiter), itoa(r.Screens), o.fmtPct(r.ScreenPassRate), itoa(r.Onsites), o.fmtPct(r.OnsitePassRate)})
		}
	case schema.SummarySection:
		t.Header = []string{"Metric", "This Week", "Last Week", "Change"}
		for _, c := range d.Summary {
			value, previous := o.fmtFloat(c.Value), o.fmtFloat(c.Previous)
			if c.Percent {
				value, previous = o.fmtPct(c.Value), o.fmtPct(c.Previous)
			}
			t.Rows = append(t.Rows, []string{c.Label, value, previous, fmtSigned(o.fmtFloat, c.Delta)})
		}
	}
	return t
}

// recruiterCardsTable builds the per-recruiter card grid.
func recruiterCardsTable(d *schema.Dashboard, o renderOpts) table {
	t := table{
		Title:  "Recruiters",
		Header: []string{"", "Recruiter", "Screens", "Δ", "Pass Rate", "Δ", "Onsites", "Δ", "Conversion", "Δ"},
	}
	for _, c := range d.Recruiters {
		t.Rows = append(t.Rows, []string{
			c.Emoji,
			o.name(c.Recruiter),
			strconv.Itoa(c.Screens),
			fmt.Sprintf("%+d", c.ScreensDelta),
			o.fmtPct(c.PassRate),
			fmtSigned(o.fmtFloat, c.PassRateDelta),
			strconv.Itoa(c.Onsites),
			fmt.Sprintf("%+d", c.OnsitesDelta),
			o.fmtPct(c.Conversion),
			fmtSigned(o.fmtFloat, c.ConversionDelta),
		})
	}
	return t
}

// periodComparisonTable builds the period-over-period table.
func periodComparisonTable(pc *schema.PeriodComparison, o renderOpts) table {
	t := table{
		Title:  fmt.Sprintf("%s vs %s", pc.Current, pc.Previous),
		Header: []string{"Metric", "Current", "Previous", "Change"},
	}
	t.Rows = [][]string{
		{"Total Screens", strconv.Itoa(pc.CurrentMetrics.TotalScreens), strconv.Itoa(pc.PreviousMetrics.TotalScreens), fmtSigned(o.fmtFloat, pc.ScreensChange) + "%"},
		{"Overall Pass Rate", o.fmtPct(pc.CurrentMetrics.OverallPassRate), o.fmtPct(pc.PreviousMetrics.OverallPassRate), fmtSigned(o.fmtFloat, pc.PassRateChange) + "%"},
		{"Total Onsites", strconv.Itoa(pc.CurrentMetrics.TotalOnsites), strconv.Itoa(pc.PreviousMetrics.TotalOnsites), fmtSigned(o.fmtFloat, pc.OnsitesChange) + "%"},
	}
	return t
}

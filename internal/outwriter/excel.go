package outwriter

import (
	"fmt"
	"strings"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
	"github.com/xuri/excelize/v2"
)

// summarySheet is the first sheet of a dashboard workbook.
const summarySheet = "Summary"

// workbookStyles are the cell styles shared by every sheet.
type workbookStyles struct {
	title  int
	header int
	label  int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, err
	}
	s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	return s, err
}

// writeDashboardWorkbook saves the dashboard as a workbook with a summary
// sheet followed by one sheet per available section.
func writeDashboardWorkbook(d *schema.Dashboard, cfg *contract.Config, outputPath string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}

	o := plainOpts(cfg)
	if err := writeSummarySheet(f, d, o, styles); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	for _, s := range schema.AllSections {
		if !d.SectionAvailable(s) {
			continue
		}
		if err := writeTableSheet(f, sheetName(s), sectionTable(d, s, o), styles); err != nil {
			return fmt.Errorf("failed to create %s sheet: %w", s, err)
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return err
	}
	logWrote("XLSX", outputPath)
	return nil
}

// writeSectionWorkbook saves a single section as a one-sheet workbook.
func writeSectionWorkbook(d *schema.Dashboard, section schema.Section, cfg *contract.Config, outputPath string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}
	name := sheetName(section)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return err
	}
	if err := writeTableSheet(f, name, sectionTable(d, section, plainOpts(cfg)), styles); err != nil {
		return err
	}
	if err := f.SaveAs(outputPath); err != nil {
		return err
	}
	logWrote("XLSX", outputPath)
	return nil
}

// writeSummarySheet fills the summary sheet with the header block, the week
// cards and the recruiter cards.
func writeSummarySheet(f *excelize.File, d *schema.Dashboard, o renderOpts, styles workbookStyles) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "J", 14); err != nil {
		return err
	}

	row := 1
	if err := setRow(f, summarySheet, row, []string{"Recruitment Funnel Dashboard"}, styles.title); err != nil {
		return err
	}
	row += 2

	star := "-"
	if d.StarRecruiter != nil {
		star = *d.StarRecruiter
	}
	facts := [][2]string{
		{"Week of", d.WeekOf},
		{"Latest week", d.LatestWeek},
		{"Total records", fmt.Sprint(d.TotalRecords)},
		{"Weeks", fmt.Sprint(d.Weeks)},
		{"Period", string(d.Period)},
		{"Star recruiter", star},
		{"Generated", d.GeneratedAt.Format(contract.DateTimeFormat)},
	}
	for _, fact := range facts {
		if err := setRow(f, summarySheet, row, []string{fact[0], fact[1]}, 0); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, cellName(1, row), cellName(1, row), styles.label); err != nil {
			return err
		}
		row++
	}
	row++

	blocks := []table{sectionTable(d, schema.SummarySection, o), recruiterCardsTable(d, o)}
	if d.PeriodComparison != nil {
		blocks = append(blocks, periodComparisonTable(d.PeriodComparison, o))
	}
	for _, t := range blocks {
		if len(t.Rows) == 0 {
			continue
		}
		next, err := writeTableAt(f, summarySheet, row, t, styles)
		if err != nil {
			return err
		}
		row = next + 1
	}
	return nil
}

// writeTableSheet creates a sheet holding a single table.
func writeTableSheet(f *excelize.File, name string, t table, styles workbookStyles) error {
	if idx, _ := f.GetSheetIndex(name); idx < 0 {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(name, "A", cellColumn(len(t.Header)), 16); err != nil {
		return err
	}
	_, err := writeTableAt(f, name, 1, t, styles)
	return err
}

// writeTableAt writes a titled table starting at row and returns the first
// row after it.
func writeTableAt(f *excelize.File, sheet string, row int, t table, styles workbookStyles) (int, error) {
	if err := setRow(f, sheet, row, []string{t.Title}, styles.title); err != nil {
		return row, err
	}
	row++
	if err := setRow(f, sheet, row, t.Header, styles.header); err != nil {
		return row, err
	}
	row++
	for _, r := range t.Rows {
		if err := setRow(f, sheet, row, r, 0); err != nil {
			return row, err
		}
		row++
	}
	return row, nil
}

// setRow writes values into consecutive cells of a row, applying style when non-zero.
func setRow(f *excelize.File, sheet string, row int, values []string, style int) error {
	if len(values) == 0 {
		return nil
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	start := cellName(1, row)
	if err := f.SetSheetRow(sheet, start, &cells); err != nil {
		return err
	}
	if style != 0 {
		return f.SetCellStyle(sheet, start, cellName(len(values), row), style)
	}
	return nil
}

// cellName returns the A1 reference of a 1-based column and row.
func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Sprintf("A%d", row)
	}
	return name
}

// cellColumn returns the column letters of a 1-based column.
func cellColumn(col int) string {
	if col < 1 {
		col = 1
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "A"
	}
	return name
}

// sheetName turns a section into a valid sheet name (31 chars max).
func sheetName(s schema.Section) string {
	name := sectionTitles[s]
	if name == "" {
		name = strings.ReplaceAll(string(s), "-", " ")
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// Package outwriter renders dashboards, reports and upload history.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/internal/parquet"
	"github.com/huangsam/hirefunnel/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDashboard prints the full dashboard using the configured output format.
func (ow *OutWriter) WriteDashboard(d *schema.Dashboard, cfg *contract.Config, duration time.Duration) error {
	return WriteDashboard(d, cfg, duration)
}

// WriteReport prints a single dashboard section using the configured output format.
func (ow *OutWriter) WriteReport(d *schema.Dashboard, section schema.Section, cfg *contract.Config) error {
	return WriteReport(d, section, cfg)
}

// WriteUploads prints the upload history using the configured output format.
func (ow *OutWriter) WriteUploads(uploads []schema.UploadRecord, cfg *contract.Config) error {
	return WriteUploads(uploads, cfg)
}

// WriteIngestResult prints the summary of an ingest run.
func (ow *OutWriter) WriteIngestResult(result schema.IngestResult, cfg *contract.Config) error {
	return WriteIngestResult(result, cfg)
}

// WriteDeletion prints the summary of an upload rollback.
func (ow *OutWriter) WriteDeletion(result schema.UploadDeletion, cfg *contract.Config) error {
	return WriteDeletion(result, cfg)
}

// WriteDashboard outputs the dashboard, dispatching based on the output format configured.
// CSV and Parquet carry the detailed metrics table, which is the flat export of the dashboard.
func WriteDashboard(d *schema.Dashboard, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, d)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeSectionCSV(d, schema.DetailSection, cfg)
	case schema.ParquetOut:
		return writeDetailParquet(d, cfg)
	case schema.XLSXOut:
		if err := writeDashboardWorkbook(d, cfg, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDashboardText(w, d, cfg, duration)
		}, "Wrote dashboard")
	}
}

// WriteReport outputs a single section of the dashboard.
func WriteReport(d *schema.Dashboard, section schema.Section, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{
				"section": section,
				"rows":    d.SectionRows(section),
				"reason":  d.SectionReason(section),
			})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeSectionCSV(d, section, cfg)
	case schema.ParquetOut:
		if section != schema.DetailSection {
			return &contract.ValidationError{Reason: fmt.Sprintf("parquet output is only available for the %s section", schema.DetailSection)}
		}
		return writeDetailParquet(d, cfg)
	case schema.XLSXOut:
		if err := writeSectionWorkbook(d, section, cfg, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSectionText(w, d, section, textOpts(cfg))
		}, "Wrote table")
	}
}

// writeSectionCSV writes one section as CSV.
func writeSectionCSV(d *schema.Dashboard, section schema.Section, cfg *contract.Config) error {
	t := sectionTable(d, section, plainOpts(cfg))
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVTable(w, t.Header, t.Rows)
	}, "Wrote CSV")
}

// writeDetailParquet writes the detailed metrics table as Parquet.
func writeDetailParquet(d *schema.Dashboard, cfg *contract.Config) error {
	if err := parquet.WriteDetailsParquet(parquet.ConvertDetails(d.Detail), cfg.OutputFile); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	logWrote("Parquet", cfg.OutputFile)
	return nil
}

// writeDashboardText renders the header, cards and every section as text tables.
func writeDashboardText(w io.Writer, d *schema.Dashboard, cfg *contract.Config, duration time.Duration) error {
	o := textOpts(cfg)
	if err := writeDashboardHeader(w, d); err != nil {
		return err
	}
	if len(d.Summary) > 0 {
		if err := renderTable(w, sectionTable(d, schema.SummarySection, o)); err != nil {
			return err
		}
	}
	if len(d.Recruiters) > 0 {
		if err := renderTable(w, recruiterCardsTable(d, o)); err != nil {
			return err
		}
	}
	if d.PeriodComparison != nil {
		if err := renderTable(w, periodComparisonTable(d.PeriodComparison, o)); err != nil {
			return err
		}
	}
	for _, s := range schema.AllSections {
		if err := writeSectionText(w, d, s, o); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Dashboard built in %v. Cache backend: %s\n", duration.Round(time.Millisecond), cfg.CacheBackend)
	return err
}

// writeDashboardHeader prints the title block.
func writeDashboardHeader(w io.Writer, d *schema.Dashboard) error {
	if _, err := fmt.Fprintln(w, "📊 Recruitment Funnel Dashboard"); err != nil {
		return err
	}
	if d.WeekOf != "" {
		if _, err := fmt.Fprintf(w, "Week of %s (%s)\n", d.WeekOf, d.LatestWeek); err != nil {
			return err
		}
	}
	star := "-"
	if d.StarRecruiter != nil {
		star = *d.StarRecruiter
	}
	_, err := fmt.Fprintf(w, "Total records: %d | Weeks: %d | Period: %s | Star recruiter: %s\n\n",
		d.TotalRecords, d.Weeks, d.Period, star)
	return err
}

// writeSectionText renders one section, or the reason it is unavailable.
func writeSectionText(w io.Writer, d *schema.Dashboard, s schema.Section, o renderOpts) error {
	if !d.SectionAvailable(s) {
		reason := d.SectionReason(s)
		if reason == "" {
			reason = "not computed"
		}
		_, err := fmt.Fprintf(w, "⚠️  %s unavailable: %s\n\n", sectionTitles[s], reason)
		return err
	}
	t := sectionTable(d, s, o)
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintf(w, "%s\nNo data for the selected weeks.\n\n", t.Title)
		return err
	}
	return renderTable(w, t)
}

// renderTable prints a titled table with right-aligned cells.
func renderTable(w io.Writer, t table) error {
	if t.Title != "" {
		if _, err := fmt.Fprintln(w, t.Title); err != nil {
			return err
		}
	}
	tbl := tablewriter.NewWriter(w)
	tbl.Header(t.Header)
	tbl.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := tbl.Bulk(t.Rows); err != nil {
		return err
	}
	if err := tbl.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

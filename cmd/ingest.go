package cmd

import (
	"github.com/huangsam/hirefunnel/core"
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/spf13/cobra"
)

// ingestCmd loads an interview export into the event store.
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Load a .csv or .xlsx interview export into the store.",
	Long: `Read an ATS interview export and append the records that are not stored yet.

Required columns:
- Candidate Name, Interview Date TZ, Interviewer
- Feedback Form, Overall Score, Candidate Origin

Optional columns: Candidate Owner Name, Posting Title

A record is identified by candidate, interview minute and feedback form.
Uploading the same file twice stores its records once.

Examples:
  # Ingest this week's export
  hirefunnel ingest interviews.csv

  # Fail the batch instead of skipping records that collide at insert time
  hirefunnel ingest interviews.xlsx --strict

  # Leave counters for the node exporter textfile collector
  hirefunnel ingest interviews.csv --metrics-textfile /var/lib/node_exporter/hirefunnel.prom`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteIngest(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot ingest file", err)
		}
	},
}

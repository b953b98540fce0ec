package cmd

import (
	"github.com/huangsam/hirefunnel/core"
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd renders a single funnel table.
var reportCmd = &cobra.Command{
	Use:   "report <section>",
	Short: "Show one table of the dashboard.",
	Long: `Compute a single funnel table.

Sections:
  screens, onsites, conversion, onsites-by-recruiter, sources,
  time-to-hire, quality, detail, last-week

Examples:
  # Conversion over the last eight weeks
  hirefunnel report conversion --weeks 8

  # Detailed metrics as Parquet
  hirefunnel report detail --output parquet --output-file detail.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: reportSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteReport(rootCtx, cfg, storeManager, args[0]); err != nil {
			contract.LogFatal("Cannot build report", err)
		}
	},
}

// reportSetupWrapper runs the shared setup without treating the section as an input file.
func reportSetupWrapper(cmd *cobra.Command, _ []string) error {
	return sharedSetup(rootCtx, cmd, nil)
}

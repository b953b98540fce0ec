package cmd

import (
	"github.com/huangsam/hirefunnel/core"
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/spf13/cobra"
)

// dashboardCmd renders every funnel table.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the weekly recruitment funnel dashboard.",
	Long: `Compute every funnel table over the most recent weeks.

Shows:
- Week cards with week-over-week deltas
- Recruiter cards, with the star recruiter of the latest week
- Screens, onsites, conversion and onsites by recruiter
- Candidate sources, time to onsite and screen quality
- Detailed metrics and last-week performance

Examples:
  # Last four weeks (default)
  hirefunnel dashboard --onsite-interviewers "Sam Nadler,Jordan Metzner"

  # This week, compared with last week
  hirefunnel dashboard --period this-week

  # Export a workbook with one sheet per table
  hirefunnel dashboard --output xlsx --output-file funnel.xlsx`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDashboard(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build dashboard", err)
		}
	},
}

package cmd

import (
	"github.com/huangsam/hirefunnel/core"
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/spf13/cobra"
)

// uploadsCmd focused on upload history.
var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "Inspect or roll back accepted uploads",
	Long: `Manage the history of accepted uploads.

Subcommands:
  list   - Show uploads, newest first
  delete - Remove the uploads of a file

Examples:
  # See what has been ingested
  hirefunnel uploads list

  # Roll back a bad export and the records it added
  hirefunnel uploads delete interviews.csv --purge-events`,
}

// uploadsListCmd lists the upload history.
var uploadsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Show accepted uploads, newest first",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteUploadsList(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list uploads", err)
		}
	},
}

// uploadsDeleteCmd removes the uploads of a file.
var uploadsDeleteCmd = &cobra.Command{
	Use:   "delete <filename>",
	Short: "Remove the upload records of a file",
	Long: `Delete the upload records whose filename matches.

By default only the upload history changes. With --purge-events the interview
records those uploads inserted are deleted too, in the same transaction, and
the metric cache is cleared.

Examples:
  hirefunnel uploads delete interviews.csv
  hirefunnel uploads delete interviews.csv --purge-events`,
	Args:    cobra.ExactArgs(1),
	PreRunE: uploadsDeleteSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteUploadsDelete(rootCtx, cfg, storeManager, args[0]); err != nil {
			contract.LogFatal("Cannot delete upload", err)
		}
	},
}

// uploadsDeleteSetupWrapper runs the shared setup without treating the filename as an input file.
func uploadsDeleteSetupWrapper(cmd *cobra.Command, _ []string) error {
	return sharedSetup(rootCtx, cmd, nil)
}

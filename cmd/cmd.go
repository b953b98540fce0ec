// Package cmd defines the command-line interface for hirefunnel.
package cmd

import (
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(uploadsCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the uploads subcommands to the parent uploads command
	uploadsCmd.AddCommand(uploadsListCmd)
	uploadsCmd.AddCommand(uploadsDeleteCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Event store backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for the event store (path for sqlite)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Metric cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for the metric cache (must differ from store-db-connect)")
	rootCmd.PersistentFlags().StringSlice("onsite-interviewers", nil, "Comma-separated names of onsite interviewers")
	rootCmd.PersistentFlags().String("screen-form", contract.DefaultScreenForm, "Feedback form text that marks a recruiter screen")
	rootCmd.PersistentFlags().Float64("pass-threshold", contract.DefaultPassThreshold, "Minimum score that counts as a pass")
	rootCmd.PersistentFlags().Float64("quality-threshold", contract.DefaultQualityThreshold, "Minimum score that counts as a high-quality screen")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL, "How long cached metrics stay valid (e.g., 30m, 1h)")
	rootCmd.PersistentFlags().StringSlice("date-formats", nil, "Go time layouts tried in order when parsing interview dates")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Show recruiter markers in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind the window flags shared by dashboardCmd and reportCmd
	for _, c := range []*cobra.Command{dashboardCmd, reportCmd} {
		c.Flags().Int("weeks", contract.DefaultWeeks, "Number of most recent weeks to show (1-12)")
		c.Flags().String("period", string(schema.AllTimePeriod), "Time period: all or this-week or last-week or this-month or last-month")
		if err := viper.BindPFlags(c.Flags()); err != nil {
			contract.LogFatal("Error binding window flags", err)
		}
	}

	// Bind all flags of ingestCmd to Viper
	ingestCmd.Flags().Bool("strict", false, "Fail the whole batch if any record collides with a stored one at insert time")
	ingestCmd.Flags().String("max-upload-size", contract.DefaultMaxUploadSize, "Largest accepted upload (e.g., 5MB)")
	ingestCmd.Flags().String("metrics-textfile", "", "Write ingest counters to this file in Prometheus text format")
	if err := viper.BindPFlags(ingestCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ingest flags", err)
	}

	// Bind all flags of uploadsDeleteCmd to Viper
	uploadsDeleteCmd.Flags().Bool("purge-events", false, "Also delete the interview records the upload inserted")
	if err := viper.BindPFlags(uploadsDeleteCmd.Flags()); err != nil {
		contract.LogFatal("Error binding uploads delete flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads the backends and opens the stores.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := backendSetup(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.StoreBackend, cfg.StoreDBConnect, cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return &contract.StoreUnavailableError{Backend: string(cfg.StoreBackend), Err: err}
	}
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetupWrapper loads the backends without opening the stores,
// so that migrations can run against a fresh database.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return backendSetup()
}

// storeCmd focused on event store management.
//
// Note: Store subcommands use minimal initialization (backendSetup) instead of
// the full sharedSetup. This avoids funnel rule validation for simple
// maintenance operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the interview record store",
	Long: `Manage the store that holds interview records and upload history.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  status  - Show record counts and connection info
  export  - Export records and uploads to Parquet
  clear   - Remove all records and uploads
  migrate - Run database schema migrations

Examples:
  # Check what is stored
  hirefunnel store status

  # Export for analysis in pandas/DuckDB
  hirefunnel store export --output-file funnel`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display record counts and connection details",
	Long: `Show detailed information about the interview record store.

Displays:
- Backend type and connection status
- Total interview records and uploads
- Oldest and newest upload and interview timestamps
- Table sizes

Examples:
  hirefunnel store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetEventStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all interview records and uploads",
	Long: `Delete every interview record and upload record.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store tables

Examples:
  hirefunnel store export --output-file backup
  hirefunnel store clear`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStore(cfg.StoreBackend, cfg.StoreDBConnect, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeExportCmd exports the store to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records and uploads to Parquet for BI tools",
	Long: `Export all stored data to Parquet format for use with analytics tools.

Writes two files:
- <output-file>.events.parquet  - one row per interview record
- <output-file>.uploads.parquet - one row per accepted upload

Requires: --output-file parameter

Examples:
  hirefunnel store export --output-file funnel
  duckdb -c "SELECT * FROM read_parquet('funnel.events.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteStoreExport(rootCtx, os.Stdout, storeManager.GetEventStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the event store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the interview record store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  hirefunnel store migrate

  # Rollback to initial state
  hirefunnel store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		report, err := iocache.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(report)
	},
}

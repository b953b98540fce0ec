package contract

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/hirefunnel/schema"
)

// Default values for configuration.
const (
	DefaultWeeks            = 4
	MaxWeeks                = 12
	DefaultPrecision        = 1
	DefaultPassThreshold    = 3.0
	DefaultQualityThreshold = 4.0
	DefaultScreenForm       = "Recruiter Screen"
	DefaultCacheTTL         = "1h"
	DefaultMaxUploadSize    = "5MB"
)

// DefaultDateLayouts are tried in order when parsing interview dates.
// The first one matches the ATS export format (M/D/YY H:MM); unpadded
// month, day and hour tokens accept zero-padded input as well.
var DefaultDateLayouts = []string{
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02",
}

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	OnsiteInterviewers []string
	ScreenForm         string
	PassThreshold      float64
	QualityThreshold   float64
	Weeks              int
	Period             schema.TimePeriod
	CacheTTL           time.Duration
	MaxUploadBytes     int64
	DateLayouts        []string

	InputPath       string
	Strict          bool
	PurgeEvents     bool
	MetricsTextfile string

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseEmojis  bool
	UseColors  bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPath string

	// --- Fields from rootCmd.PersistentFlags() ---
	StoreBackend       string   `mapstructure:"store-backend"`
	StoreDBConnect     string   `mapstructure:"store-db-connect"`
	CacheBackend       string   `mapstructure:"cache-backend"`
	CacheDBConnect     string   `mapstructure:"cache-db-connect"`
	OnsiteInterviewers []string `mapstructure:"onsite-interviewers"`
	ScreenForm         string   `mapstructure:"screen-form"`
	PassThreshold      float64  `mapstructure:"pass-threshold"`
	QualityThreshold   float64  `mapstructure:"quality-threshold"`
	CacheTTL           string   `mapstructure:"cache-ttl"`
	DateFormats        []string `mapstructure:"date-formats"`
	Precision          int      `mapstructure:"precision"`
	Output             string   `mapstructure:"output"`
	OutputFile         string   `mapstructure:"output-file"`
	Width              int      `mapstructure:"width"`
	Emoji              string   `mapstructure:"emoji"`
	Color              string   `mapstructure:"color"`

	// --- Fields from dashboardCmd and reportCmd ---
	Weeks  int    `mapstructure:"weeks"`
	Period string `mapstructure:"period"`

	// --- Fields from ingestCmd.Flags() ---
	MaxUploadSize   string `mapstructure:"max-upload-size"`
	Strict          bool   `mapstructure:"strict"`
	MetricsTextfile string `mapstructure:"metrics-textfile"`

	// --- Fields from uploadsDeleteCmd.Flags() ---
	PurgeEvents bool `mapstructure:"purge-events"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.OnsiteInterviewers = slices.Clone(c.OnsiteInterviewers)
	clone.DateLayouts = slices.Clone(c.DateLayouts)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processFunnelRules(cfg, input); err != nil {
		return err
	}
	if err := processWindow(cfg, input.Weeks, input.Period); err != nil {
		return err
	}
	if err := processLimits(cfg, input); err != nil {
		return err
	}
	return processDateLayouts(cfg, input)
}

// invalidf reports a rejected config value.
func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// RevalidateWindow reapplies the weeks and period rules to an existing config.
// It is used by callers that take these two values per request.
func RevalidateWindow(cfg *Config, weeks int, period string) error {
	return processWindow(cfg, weeks, period)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseStoreBackend validates the event store backend. The event store
// cannot be disabled.
func ParseStoreBackend(raw string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql", raw)
	}
	if backend == schema.NoneBackend {
		return "", fmt.Errorf("store backend cannot be none: events must be persisted")
	}
	return backend, nil
}

// ParseCacheBackend validates the metric cache backend.
func ParseCacheBackend(raw string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// validateBackendConfigs validates store and cache backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Store Backend Validation ---
	backend, err := ParseStoreBackend(input.StoreBackend)
	if err != nil {
		return err
	}
	cfg.StoreBackend = backend
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	// --- Cache Backend Validation ---
	backend, err = ParseCacheBackend(input.CacheBackend)
	if err != nil {
		return err
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.CacheBackend == schema.SQLiteBackend {
		storePath := cfg.StoreDBConnect
		if storePath == "" {
			storePath = GetStoreDBFilePath()
		}
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		if storePath == cachePath {
			return fmt.Errorf("store and cache must use different SQLite database files. Both resolve to %q", storePath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = input.InputPath
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Strict = input.Strict
	cfg.PurgeEvents = input.PurgeEvents
	cfg.MetricsTextfile = input.MetricsTextfile

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return invalidf("invalid --emoji value: %v", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return invalidf("invalid --color value: %v", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return invalidf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return invalidf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return invalidf("--output-file is required for %s output", cfg.Output)
	}

	return nil
}

// processFunnelRules handles the stage classification inputs.
func processFunnelRules(cfg *Config, input *ConfigRawInput) error {
	cfg.ScreenForm = strings.TrimSpace(input.ScreenForm)
	if cfg.ScreenForm == "" {
		return invalidf("screen-form cannot be empty")
	}

	if input.PassThreshold < 0 {
		return invalidf("pass-threshold cannot be negative (received %v)", input.PassThreshold)
	}
	cfg.PassThreshold = input.PassThreshold

	if input.QualityThreshold < 0 {
		return invalidf("quality-threshold cannot be negative (received %v)", input.QualityThreshold)
	}
	cfg.QualityThreshold = input.QualityThreshold

	cfg.OnsiteInterviewers = ParseNameList(input.OnsiteInterviewers)
	if len(cfg.OnsiteInterviewers) == 0 {
		LogWarn("No onsite interviewers configured", fmt.Errorf("onsite metrics will be empty; set --onsite-interviewers"))
	}
	return nil
}

// processWindow validates the number of weeks and the time period.
func processWindow(cfg *Config, weeks int, period string) error {
	if weeks <= 0 || weeks > MaxWeeks {
		return invalidf("weeks must be greater than 0 and cannot exceed %d (received %d)", MaxWeeks, weeks)
	}
	cfg.Weeks = weeks

	cfg.Period = schema.TimePeriod(strings.ToLower(strings.TrimSpace(period)))
	if cfg.Period == "" {
		cfg.Period = schema.AllTimePeriod
	}
	if _, ok := schema.ValidTimePeriods[cfg.Period]; !ok {
		return invalidf("invalid period '%s'. must be all, this-week, last-week, this-month, last-month", period)
	}
	return nil
}

// processLimits parses the cache TTL and the upload size limit.
func processLimits(cfg *Config, input *ConfigRawInput) error {
	ttlStr := input.CacheTTL
	if ttlStr == "" {
		ttlStr = DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return invalidf("invalid cache-ttl '%s': %v", ttlStr, err)
	}
	if ttl <= 0 {
		return invalidf("cache-ttl must be positive (received %s)", ttlStr)
	}
	cfg.CacheTTL = ttl

	sizeStr := input.MaxUploadSize
	if sizeStr == "" {
		sizeStr = DefaultMaxUploadSize
	}
	size, err := humanize.ParseBytes(sizeStr)
	if err != nil {
		return invalidf("invalid max-upload-size '%s': %v", sizeStr, err)
	}
	if size == 0 {
		return invalidf("max-upload-size must be positive (received %s)", sizeStr)
	}
	cfg.MaxUploadBytes = int64(size)
	return nil
}

// processDateLayouts keeps the user layouts in order, or falls back to the defaults.
func processDateLayouts(cfg *Config, input *ConfigRawInput) error {
	var layouts []string
	for _, l := range input.DateFormats {
		if l = strings.TrimSpace(l); l != "" && !slices.Contains(layouts, l) {
			layouts = append(layouts, l)
		}
	}
	if len(layouts) == 0 {
		layouts = slices.Clone(DefaultDateLayouts)
	}
	cfg.DateLayouts = layouts
	return nil
}

// ParseNameList flattens a list of names that may itself hold comma-separated
// entries, canonicalizes each name and drops blanks and repeats.
func ParseNameList(raw []string) []string {
	var names []string
	for _, entry := range raw {
		for part := range strings.SplitSeq(entry, ",") {
			name := schema.CanonicalName(part)
			if name != "" && !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	return names
}

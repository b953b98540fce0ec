package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/hirefunnel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation; tests mutate a copy.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		StoreBackend:       string(schema.SQLiteBackend),
		CacheBackend:       string(schema.NoneBackend),
		OnsiteInterviewers: []string{"Sam Nadler", "Jordan Metzner"},
		ScreenForm:         DefaultScreenForm,
		PassThreshold:      DefaultPassThreshold,
		QualityThreshold:   DefaultQualityThreshold,
		CacheTTL:           DefaultCacheTTL,
		Precision:          1,
		Output:             "text",
		Emoji:              "no",
		Color:              "no",
		Weeks:              DefaultWeeks,
		Period:             "all",
		MaxUploadSize:      DefaultMaxUploadSize,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name:        "weeks above maximum",
			mutate:      func(in *ConfigRawInput) { in.Weeks = MaxWeeks + 1 },
			expectError: "cannot exceed 12",
		},
		{
			name:        "zero weeks",
			mutate:      func(in *ConfigRawInput) { in.Weeks = 0 },
			expectError: "weeks must be greater than 0",
		},
		{
			name:        "invalid period",
			mutate:      func(in *ConfigRawInput) { in.Period = "next-year" },
			expectError: "invalid period",
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "yaml" },
			expectError: "invalid output format",
		},
		{
			name:        "xlsx needs output file",
			mutate:      func(in *ConfigRawInput) { in.Output = "xlsx" },
			expectError: "--output-file is required",
		},
		{
			name:        "store backend none rejected",
			mutate:      func(in *ConfigRawInput) { in.StoreBackend = "none" },
			expectError: "store backend cannot be none",
		},
		{
			name:        "mysql without connection string",
			mutate:      func(in *ConfigRawInput) { in.StoreBackend = "mysql" },
			expectError: "a connection string is required",
		},
		{
			name:        "bad cache ttl",
			mutate:      func(in *ConfigRawInput) { in.CacheTTL = "soon" },
			expectError: "invalid cache-ttl",
		},
		{
			name:        "bad upload size",
			mutate:      func(in *ConfigRawInput) { in.MaxUploadSize = "lots" },
			expectError: "invalid max-upload-size",
		},
		{
			name:        "empty screen form",
			mutate:      func(in *ConfigRawInput) { in.ScreenForm = "  " },
			expectError: "screen-form cannot be empty",
		},
		{
			name:        "negative pass threshold",
			mutate:      func(in *ConfigRawInput) { in.PassThreshold = -1 },
			expectError: "pass-threshold cannot be negative",
		},
		{
			name:        "invalid precision",
			mutate:      func(in *ConfigRawInput) { in.Precision = 5 },
			expectError: "precision must be 1 or 2",
		},
		{
			name:        "invalid emoji flag",
			mutate:      func(in *ConfigRawInput) { in.Emoji = "maybe" },
			expectError: "invalid --emoji value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateResolvesValues(t *testing.T) {
	input := validInput()
	input.CacheTTL = "30m"
	input.MaxUploadSize = "2MB"
	input.Period = "This-Week"
	input.OnsiteInterviewers = []string{"Sam Nadler, Jordan Metzner", " Sam  Nadler "}
	input.DateFormats = []string{"2006-01-02", "", "2006-01-02"}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, int64(2_000_000), cfg.MaxUploadBytes)
	assert.Equal(t, schema.ThisWeekPeriod, cfg.Period)
	assert.Equal(t, []string{"Sam Nadler", "Jordan Metzner"}, cfg.OnsiteInterviewers)
	assert.Equal(t, []string{"2006-01-02"}, cfg.DateLayouts)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.Equal(t, schema.NoneBackend, cfg.CacheBackend)
}

func TestProcessAndValidateDefaultsDateLayouts(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))
	assert.Equal(t, DefaultDateLayouts, cfg.DateLayouts)
	assert.Equal(t, "1/2/06 15:04", cfg.DateLayouts[0])
}

func TestValidateBackendConfigsSQLitePaths(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "shared.db")

	t.Run("same file rejected", func(t *testing.T) {
		input := validInput()
		input.CacheBackend = "sqlite"
		input.StoreDBConnect = shared
		input.CacheDBConnect = shared
		err := validateBackendConfigs(&Config{}, input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "different SQLite database files")
	})

	t.Run("different files accepted", func(t *testing.T) {
		input := validInput()
		input.CacheBackend = "sqlite"
		input.StoreDBConnect = shared
		input.CacheDBConnect = filepath.Join(dir, "cache.db")
		assert.NoError(t, validateBackendConfigs(&Config{}, input))
	})

	t.Run("default paths differ", func(t *testing.T) {
		input := validInput()
		input.CacheBackend = "sqlite"
		assert.NoError(t, validateBackendConfigs(&Config{}, input))
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/funnel", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/funnel", true},
		{"mysql missing db", schema.MySQLBackend, "root:pw@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=funnel", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=funnel", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRevalidateWindow(t *testing.T) {
	cfg := &Config{Weeks: 4, Period: schema.AllTimePeriod}
	require.NoError(t, RevalidateWindow(cfg, 8, "last-month"))
	assert.Equal(t, 8, cfg.Weeks)
	assert.Equal(t, schema.LastMonthPeriod, cfg.Period)

	assert.Error(t, RevalidateWindow(cfg, 13, ""))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{OnsiteInterviewers: []string{"Sam"}, DateLayouts: []string{"2006"}}
	clone := cfg.Clone()
	clone.OnsiteInterviewers[0] = "Jordan"
	clone.DateLayouts[0] = "06"
	assert.Equal(t, "Sam", cfg.OnsiteInterviewers[0])
	assert.Equal(t, "2006", cfg.DateLayouts[0])
}

func TestParseNameList(t *testing.T) {
	assert.Empty(t, ParseNameList(nil))
	assert.Equal(t, []string{"A B", "C"}, ParseNameList([]string{"A  B,C", "", "C"}))
}

func TestConfigRejectionsAreValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"weeks", func(in *ConfigRawInput) { in.Weeks = 0 }},
		{"period", func(in *ConfigRawInput) { in.Period = "fortnight" }},
		{"cache ttl", func(in *ConfigRawInput) { in.CacheTTL = "-5m" }},
		{"upload size", func(in *ConfigRawInput) { in.MaxUploadSize = "lots" }},
		{"screen form", func(in *ConfigRawInput) { in.ScreenForm = "" }},
		{"output", func(in *ConfigRawInput) { in.Output = "yaml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.NotEmpty(t, valErr.Reason)
		})
	}
}

func TestRevalidateWindowReturnsValidationError(t *testing.T) {
	cfg := &Config{Weeks: 4, Period: schema.AllTimePeriod}
	err := RevalidateWindow(cfg, MaxWeeks+1, "all")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Reason, "cannot exceed 12")
	assert.Equal(t, 4, cfg.Weeks, "rejected window leaves the config unchanged")
}

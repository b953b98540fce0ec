package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for a store.
	DatabaseBackend string

	// SourceCategory represents the normalized class of a candidate origin.
	SourceCategory string

	// TimePeriod represents a relative period used to filter events.
	TimePeriod string

	// Section represents one named table of the dashboard.
	Section string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All source categories supported.
const (
	AppliedSource  SourceCategory = "Applied"
	SourcedSource  SourceCategory = "Sourced"
	ReferredSource SourceCategory = "Referred"
	UnknownSource  SourceCategory = "Unknown"
)

// All time periods supported.
const (
	AllTimePeriod   TimePeriod = "all" // default
	ThisWeekPeriod  TimePeriod = "this-week"
	LastWeekPeriod  TimePeriod = "last-week"
	ThisMonthPeriod TimePeriod = "this-month"
	LastMonthPeriod TimePeriod = "last-month"
)

// All dashboard sections supported.
const (
	ScreensSection            Section = "screens"
	OnsitesSection            Section = "onsites"
	ConversionSection         Section = "conversion"
	OnsitesByRecruiterSection Section = "onsites-by-recruiter"
	SourcesSection            Section = "sources"
	TimeToHireSection         Section = "time-to-hire"
	QualitySection            Section = "quality"
	DetailSection             Section = "detail"
	LastWeekSection           Section = "last-week"
	SummarySection            Section = "summary"
)

// AllSourceCategories lists the source categories in display order.
var AllSourceCategories = []SourceCategory{AppliedSource, SourcedSource, ReferredSource, UnknownSource}

// AllSections lists the report sections in display order.
var AllSections = []Section{
	ScreensSection,
	OnsitesSection,
	ConversionSection,
	OnsitesByRecruiterSection,
	SourcesSection,
	TimeToHireSection,
	QualitySection,
	DetailSection,
	LastWeekSection,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidTimePeriods lists all valid time periods.
var ValidTimePeriods = map[TimePeriod]struct{}{
	AllTimePeriod:   {},
	ThisWeekPeriod:  {},
	LastWeekPeriod:  {},
	ThisMonthPeriod: {},
	LastMonthPeriod: {},
}

// ValidSections lists all valid report sections.
var ValidSections = map[Section]struct{}{
	ScreensSection:            {},
	OnsitesSection:            {},
	ConversionSection:         {},
	OnsitesByRecruiterSection: {},
	SourcesSection:            {},
	TimeToHireSection:         {},
	QualitySection:            {},
	DetailSection:             {},
	LastWeekSection:           {},
}

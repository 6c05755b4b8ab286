package config

// Application constants
const (
	// Application Info
	AppName   = "noshow"
	EnvPrefix = "NOSHOW"

	// Input defaults
	DefaultInputFile = "noshow.csv"
	DotEnvFile       = ".env"

	// Cleaning policy: ages outside [DefaultMinAge, DefaultMaxAge] are
	// data-entry errors and are removed.
	DefaultMinAge      = 0
	DefaultMaxAge      = 100
	DefaultAgeBinWidth = 5

	DefaultReportTitle = "Medical Appointment No Shows"
)

// Report formats
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// SupportedFormats lists every report format in output order
var SupportedFormats = []string{FormatText, FormatCSV, FormatJSON, FormatXLSX}

// Well-known output file names inside the output directory
const (
	GenderSummaryCSV  = "gender_summary.csv"
	WeekdaySummaryCSV = "weekday_summary.csv"
	AgeHistogramCSV   = "age_histogram.csv"
	AgeStatsCSV       = "age_stats.csv"
	RemovalsCSV       = "removals.csv"
	AnalysisJSON      = "analysis.json"
	ReportXLSX        = "noshow_report.xlsx"
	CleanedDataCSV    = "noshow_cleaned.csv"
)

// ConfigFileLocations are searched in order when no config file is given
var ConfigFileLocations = []string{
	"noshow.yaml",
	"config.yaml",
	"configs/config.yaml",
}

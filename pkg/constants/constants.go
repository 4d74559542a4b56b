// Package constants provides shared constants for the mortgage-planner application.
package constants

// Amortization arithmetic
const (
	MonthsPerYear = 12

	// MaxTermYears bounds the loan term a scenario may request.
	MaxTermYears = 100

	// DecimalPrecision scales dollars to cents for rounding.
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimal places kept for currency values.
	CurrencyPlaces = 2

	// PercentageMultiplier converts between percentages and fractions.
	PercentageMultiplier = 100.0
)

// Output formats accepted by the CLI
const (
	OutputFormatPretty = "pretty"
	OutputFormatCSV    = "csv"
)

// Files read at startup
const (
	DefaultConfigFile       = "config.yaml"
	DefaultServerConfigFile = "server-config.yaml"
	DefaultEnvFile          = ".env"
)

// Server defaults
const (
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes caps request bodies (256 KB).
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	DefaultMetricsPath = "/metrics"

	// DefaultServiceName identifies the server in traces.
	DefaultServiceName = "mortgage-planner"
)

// Workbook export
const (
	SpreadsheetExtension   = ".xlsx"
	SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

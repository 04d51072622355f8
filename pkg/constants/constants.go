// Package constants provides shared constants for the capex-viability application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPlaces is the number of decimal places used for currency rounding
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// FloatTolerance is the tolerance used when comparing computed amounts
	FloatTolerance = 1e-9
)

// Currency and exchange rate defaults
const (
	// DefaultExchangeRate is the USD/BRL rate applied when USD is the display currency
	DefaultExchangeRate = 5.25

	// MinEditableExchangeRate is the lowest rate accepted when the rate is editable
	MinEditableExchangeRate = 1.0
)

// Input bounds
const (
	// DefaultHorizonMonths is the default dilution horizon
	DefaultHorizonMonths = 36

	// MinHorizonMonths is the shortest dilution horizon accepted
	MinHorizonMonths = 6

	// MaxHorizonMonths is the longest dilution horizon accepted
	MaxHorizonMonths = 84

	// HorizonStepMonths is the step the horizon must be a multiple of
	HorizonStepMonths = 6

	// DefaultAnnualDiscountPercent is the default annual discount rate in percent
	DefaultAnnualDiscountPercent = 12.0

	// MaxAnnualDiscountPercent is the highest annual discount rate accepted
	MaxAnnualDiscountPercent = 60.0

	// MaxHubsPerType caps the hub count for each hub category
	MaxHubsPerType = 500

	// DefaultAvgAreaPerHub is the default average floor area per hub in square meters
	DefaultAvgAreaPerHub = 3500.0

	// MaxAvgAreaPerHub caps the average floor area per hub
	MaxAvgAreaPerHub = 50000.0

	// MaxItemizedCostPerHub caps a single itemized monthly CTO field
	MaxItemizedCostPerHub = 2000000.0

	// MaxConsolidatedCTO caps the consolidated monthly CTO
	MaxConsolidatedCTO = 50000000.0

	// MaxInstallationRate caps each installation unit rate
	MaxInstallationRate = 500.0
)

// Installation rate defaults, per square meter in the display currency
const (
	DefaultCablingRate        = 12.0
	DefaultInfrastructureRate = 8.0
	DefaultLaborRate          = 5.0
)

// Impact classification thresholds in percent
const (
	// LowImpactCeiling is the exclusive upper bound of the low impact tier
	LowImpactCeiling = 3.0

	// ModerateImpactCeiling is the exclusive upper bound of the moderate impact tier
	ModerateImpactCeiling = 10.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Export format constants
const (
	// ExportFormatXLSX writes a spreadsheet workbook
	ExportFormatXLSX = "xlsx"

	// ExportFormatCSV writes a single CSV file with one section per table
	ExportFormatCSV = "csv"

	// ExportFilePrefix prefixes every export file name
	ExportFilePrefix = "capex_viability"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. CAPEX_HORIZONMONTHS
	EnvPrefix = "CAPEX"

	// ServerEnvPrefix prefixes server environment overrides, e.g. CAPEX_SERVER_ADDRESS
	ServerEnvPrefix = "CAPEX_SERVER"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)

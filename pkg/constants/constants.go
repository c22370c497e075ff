// Package constants provides shared constants for the bank-calculators application.
package constants

// DateLayout is the textual date format accepted on every input surface and
// used for dates in rendered output (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerYear is the number of compounding periods for daily compounding
	DaysPerYear = 365

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MonthlyInterestDivisor is the divisor used by the monthly-interest payout
	// formula: interest = amount * rate / (MonthlyInterestDivisor + rate).
	MonthlyInterestDivisor = 1200.0
)

// Instalment and compounding frequency names.
const (
	FrequencyDaily      = "daily"
	FrequencyMonthly    = "monthly"
	FrequencyQuarterly  = "quarterly"
	FrequencyHalfYearly = "half-yearly"
	FrequencyYearly     = "yearly"
	FrequencyNoCompound = "no-compound"
)

// Deposit payout methods.
const (
	PayoutMonthlyInterest = "monthly-interest"
	PayoutMaturity        = "maturity"
)

// DCB input modes.
const (
	ModeInstalments = "instalments"
	ModeOutstanding = "outstanding"
	ModeCollection  = "collection"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix is the prefix for environment overrides of configuration keys
	EnvPrefix = "BANKCALC"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum JSON request body size (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024

	// DefaultShutdownTimeoutSeconds bounds graceful shutdown of the API server
	DefaultShutdownTimeoutSeconds = 10

	// DefaultServiceName is the service name reported to tracing backends
	DefaultServiceName = "bank-calculators"
)

// Input limit defaults
const (
	DefaultMaxPrincipal    = 1e12
	DefaultMaxContribution = 1e10
	DefaultMaxRatePercent  = 100.0
	DefaultMaxInstalments  = 1200
	DefaultMaxTermMonths   = 1200
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// RelativeTolerance is the relative tolerance for schedule invariants
	RelativeTolerance = 1e-6
)

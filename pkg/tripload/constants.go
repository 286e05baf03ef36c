package tripload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess             = 0  // Load completed successfully
	ExitGeneralError        = 1  // Unknown or unclassified error
	ExitUsageError          = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic               = 3  // Internal panic (unexpected crash)
	ExitConfigError         = 10 // Invalid configuration or missing DB_* variables
	ExitConnectionError     = 11 // Failed to connect to database
	ExitSourceMissing       = 12 // Trip file or zone lookup file not found
	ExitSchemaMismatch      = 13 // Input columns do not match expectations
	ExitBulkLoadFailed      = 14 // COPY rejected a row
	ExitConstraintViolation = 15 // Foreign key could not be added
	ExitExecutionFailed     = 16 // Any other SQL failure
)

const (
	// DefaultDataDir is the directory holding input and output files.
	DefaultDataDir = "data"

	// DefaultSourceFile is the columnar trip file read by the transform stage.
	DefaultSourceFile = "yellow_tripdata_2025-01.parquet"

	// DefaultLookupFile is the zone lookup CSV that seeds taxi_zones.
	DefaultLookupFile = "taxi_zone_lookup.csv"

	// DefaultTimeout bounds a whole run.
	DefaultTimeout = 2 * time.Hour

	// DefaultSSLMode is used when DB_SSLMODE is unset.
	DefaultSSLMode = "prefer"

	// ApplicationNamePrefix tags every session in pg_stat_activity.
	ApplicationNamePrefix = "tripload"

	// TokenExpiryWarning is the remaining token lifetime below which a warning is logged.
	TokenExpiryWarning = 5 * time.Minute
)

package tripload

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure classes of a load run.
// Callers distinguish them with errors.Is():
//
//	err := pipeline.Run(ctx, cfg)
//	if errors.Is(err, tripload.ErrConstraintViolation) {
//	    // a fact row references a missing zone, vendor, ...
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceNotFound indicates the trip file or the zone lookup file is missing.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrSchemaMismatch indicates an input file does not have the expected columns.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrBulkLoadFailed indicates a COPY FROM STDIN rejected the input.
	ErrBulkLoadFailed = errors.New("bulk load failed")

	// ErrConstraintViolation indicates referential integrity does not hold.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrExecutionFailed indicates any other SQL statement failed.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// usageErrorPrefixes are the message prefixes cobra uses for argument and flag errors.
var usageErrorPrefixes = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrSourceNotFound):
		return ExitSourceMissing
	case errors.Is(err, ErrSchemaMismatch):
		return ExitSchemaMismatch
	case errors.Is(err, ErrBulkLoadFailed):
		return ExitBulkLoadFailed
	case errors.Is(err, ErrConstraintViolation):
		return ExitConstraintViolation
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	}

	errStr := err.Error()
	for _, prefix := range usageErrorPrefixes {
		if strings.HasPrefix(errStr, prefix) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

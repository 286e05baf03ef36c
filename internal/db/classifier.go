package db

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/tripload/pkg/tripload"
)

// PostgreSQL error codes the loader distinguishes.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeForeignKeyViolation = "23503"
	pgCodeTooManyConnections  = "53300"
	pgCodeAdminShutdown       = "57P01"
	pgCodeCrashShutdown       = "57P02"
	pgCodeCannotConnectNow    = "57P03"

	// Class 08 - Connection Exception
	pgClassConnectionException = "08"
	// Class 23 - Integrity Constraint Violation
	pgClassIntegrityConstraint = "23"
)

var failureClasses = []error{
	tripload.ErrInvalidConfig,
	tripload.ErrSourceNotFound,
	tripload.ErrSchemaMismatch,
	tripload.ErrConnectionFailed,
	tripload.ErrBulkLoadFailed,
	tripload.ErrConstraintViolation,
	tripload.ErrExecutionFailed,
}

// Classify wraps err with the failure class it belongs to. fallback is used
// when the error carries no more specific class. Errors that already carry a
// class are returned unchanged.
func Classify(err error, fallback error) error {
	if err == nil {
		return nil
	}
	for _, class := range failureClasses {
		if errors.Is(err, class) {
			return err
		}
	}

	// During COPY every rejected value is a bulk load failure, except a
	// dangling reference once the foreign keys exist.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgCodeForeignKeyViolation {
			return fmt.Errorf("%w: %w", tripload.ErrConstraintViolation, err)
		}
		if strings.HasPrefix(pgErr.Code, pgClassIntegrityConstraint) && fallback != tripload.ErrBulkLoadFailed {
			return fmt.Errorf("%w: %w", tripload.ErrConstraintViolation, err)
		}
	}

	if IsConnectionError(err) {
		return fmt.Errorf("%w: %w", tripload.ErrConnectionFailed, err)
	}

	return fmt.Errorf("%w: %w", fallback, err)
}

// IsConnectionError reports whether err means the session to the server is gone
// or could not be established.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, pgClassConnectionException) {
			return true
		}
		switch pgErr.Code {
		case pgCodeTooManyConnections, pgCodeAdminShutdown, pgCodeCrashShutdown, pgCodeCannotConnectNow:
			return true
		}
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ENETUNREACH, syscall.EHOSTUNREACH} {
			if errors.Is(opErr.Err, errno) {
				return true
			}
		}
	}

	if pgconn.SafeToRetry(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range connectionErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

var connectionErrorPatterns = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"broken pipe",
	"server closed the connection",
	"unexpected eof",
	"conn closed",
}

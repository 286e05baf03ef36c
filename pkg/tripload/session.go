package tripload

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Session abstracts the single database session a load run holds.
// It decouples the stages from *pgx.Conn so they can be exercised against fakes.
//
// Every statement autocommits: a failed run leaves whatever earlier
// statements committed in place.
//
// Thread-Safety: NOT safe for concurrent use, like the connection it wraps.
type Session interface {
	// Exec executes a statement without returning any rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// QueryRow executes a query that is expected to return at most one row.
	// Errors are deferred until Row's Scan method is called.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// CopyFrom streams r to the server using the given COPY ... FROM STDIN
	// statement and returns the number of rows copied.
	CopyFrom(ctx context.Context, r io.Reader, sql string) (int64, error)

	// Close releases the session. Safe to call more than once.
	Close(ctx context.Context) error
}

// Row represents a single row returned by QueryRow.
type Row interface {
	// Scan reads the values from the row into dest values.
	Scan(dest ...any) error
}

// Connector establishes the database session for a run.
// Different implementations handle the supported authentication methods.
type Connector interface {
	// Connect opens the session. The caller must Close it.
	Connect(ctx context.Context) (*pgx.Conn, error)
}

// ConnectorFactory builds a Connector for a resolved connection configuration.
type ConnectorFactory func(config *ConnectionConfig) (Connector, error)

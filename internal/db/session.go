package db

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/tripload/pkg/tripload"
)

// ConnSession adapts *pgx.Conn to tripload.Session.
type ConnSession struct {
	conn   *pgx.Conn
	closer io.Closer
}

// Compile-time check that ConnSession implements tripload.Session.
var _ tripload.Session = (*ConnSession)(nil)

// NewConnSession wraps conn. closer, when not nil, is closed after the connection.
func NewConnSession(conn *pgx.Conn, closer io.Closer) *ConnSession {
	return &ConnSession{conn: conn, closer: closer}
}

// OpenSession connects through connector and wraps the connection.
// Connectors that hold resources of their own (io.Closer) are released with the session.
func OpenSession(ctx context.Context, connector tripload.Connector) (*ConnSession, error) {
	conn, err := connector.Connect(ctx)
	if err != nil {
		if closer, ok := connector.(io.Closer); ok {
			closer.Close() //nolint:errcheck
		}
		return nil, Classify(err, tripload.ErrConnectionFailed)
	}

	closer, _ := connector.(io.Closer)
	return NewConnSession(conn, closer), nil
}

func (s *ConnSession) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.conn.Exec(ctx, sql, args...)
}

func (s *ConnSession) QueryRow(ctx context.Context, sql string, args ...any) tripload.Row {
	return s.conn.QueryRow(ctx, sql, args...)
}

func (s *ConnSession) CopyFrom(ctx context.Context, r io.Reader, sql string) (int64, error) {
	tag, err := s.conn.PgConn().CopyFrom(ctx, r, sql)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *ConnSession) Close(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close(ctx)
	s.conn = nil

	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.closer = nil
	}
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}
